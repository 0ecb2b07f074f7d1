package site_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/handlertest"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/site"
)

func TestPages(t *testing.T) {
	deps := handlertest.NewDeps(t)

	_, err := deps.Content.Experts.Create(t.Context(), content.ExpertInput{Name: "A", Role: "Dev"}.Values())
	require.NoError(t, err)

	app, views := handlertest.NewCaptureApp()

	var s site.Service
	require.NoError(t, s.Init(app, deps))

	tests := []struct {
		path, template, key string
		want                int
	}{
		{"/", "site/home", "Experts", 1},
		{"/team", "site/team", "Experts", 1},
		{"/services", "site/services", "Services", 0},
		{"/industries", "site/industries", "Industries", 0},
		{"/process", "site/process", "Steps", len(site.Process)},
		{"/projects", "site/projects", "Projects", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := handlertest.Request(t, app, http.MethodGet, tt.path, nil, "", "")
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			name, data := views.Last()
			assert.Equal(t, tt.template, name)

			switch items := data[tt.key].(type) {
			case []models.Expert:
				assert.Len(t, items, tt.want)
			case []models.Service:
				assert.Len(t, items, tt.want)
			case []models.Industry:
				assert.Len(t, items, tt.want)
			case []site.Step:
				assert.Len(t, items, tt.want)
			case []backend.Project:
				assert.Len(t, items, tt.want)
			default:
				t.Fatalf("unexpected %s type %T", tt.key, items)
			}
		})
	}
}

func TestProjectsFallBackOnBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"down"}`)
	}))
	defer srv.Close()

	deps := handlertest.NewDeps(t)

	client, err := backend.New(srv.URL, 0)
	require.NoError(t, err)

	deps.Backend = client

	app, views := handlertest.NewCaptureApp()

	var s site.Service
	require.NoError(t, s.Init(app, deps))

	resp := handlertest.Request(t, app, http.MethodGet, "/projects", nil, "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, data := views.Last()
	assert.Empty(t, data["Projects"])
}
