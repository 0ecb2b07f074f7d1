package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/backend/auth"
)

var errNotSignedIn = errors.New("sign in failed, check --email and --password")

func init() { //nolint: gochecknoinits
	projectsDeleteCmd.Flags().StringVar(&email, "email", "", "Admin account email")
	projectsDeleteCmd.Flags().StringVar(&password, "password", "", "Admin account password")
	_ = projectsDeleteCmd.MarkFlagRequired("email")
	_ = projectsDeleteCmd.MarkFlagRequired("password")

	projectsCmd.AddCommand(projectsListCmd, projectsDeleteCmd)
	rootCmd.AddCommand(projectsCmd)
}

var (
	email    string
	password string

	projectsCmd = &cobra.Command{
		Use:   "projects",
		Short: "Manage projects on the configured backend",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := loadConfig(); err != nil {
				return err
			}

			if cfg.Backend.URL == "" {
				return backend.ErrInvalidBaseURL
			}

			return nil
		},
	}

	projectsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := backend.New(cfg.Backend.URL, cfg.Backend.Timeout)
			if err != nil {
				return err
			}

			items, err := client.Projects().List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0) //nolint:mnd
			_, _ = fmt.Fprintln(w, "ID\tTITLE\tTAGS\tLINK")

			for _, p := range items {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Title, strings.Join(p.Tags, ","), p.Link)
			}

			return w.Flush()
		},
	}

	projectsDeleteCmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project, signing in to the site first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteProject(cmd.Context(), args[0])
		},
	}
)

// deleteProject signs in against the site's auth api and uses the issued
// session token as bearer for the backend.
func deleteProject(ctx context.Context, id string) error {
	sess, err := signIn(ctx)
	if err != nil {
		return err
	}

	defer sess.close(ctx)

	return sess.deleteProject(ctx, id)
}

// cliSession is a signed in admin session driven from the command line.
type cliSession struct {
	provider *auth.Provider
	cookies  *auth.CookieStore
	nav      *auth.PathNavigator
}

func signIn(ctx context.Context) (*cliSession, error) {
	cookies, err := auth.NewCookieStore(cfg.Webserver.URL, cfg.Webserver.Session.CookieName)
	if err != nil {
		return nil, err
	}

	site, err := backend.New(cfg.Webserver.URL, cfg.Backend.Timeout)
	if err != nil {
		return nil, err
	}

	nav := auth.NewPathNavigator("/")
	provider := auth.NewProvider(auth.NewRemote(site, cookies), cookies, nav)
	provider.Start(ctx)

	if err = provider.Login(ctx, email, password); err != nil {
		provider.Close()
		return nil, err
	}

	if provider.State() != auth.Authenticated {
		provider.Close()
		return nil, errNotSignedIn
	}

	return &cliSession{provider: provider, cookies: cookies, nav: nav}, nil
}

// deleteProject removes a project on the backend. A rejected token expires
// the session.
func (s *cliSession) deleteProject(ctx context.Context, id string) error {
	client, err := backend.New(cfg.Backend.URL, cfg.Backend.Timeout,
		backend.WithTokenSource(s.cookies),
		backend.WithUnauthorizedHandler(s.provider.Expire))
	if err != nil {
		return err
	}

	return client.Projects().Delete(ctx, id)
}

func (s *cliSession) close(ctx context.Context) {
	if s.provider.State() == auth.Authenticated {
		_ = s.provider.Logout(ctx)
	}

	s.provider.Close()
}
