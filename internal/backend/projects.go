package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-json"

	"github.com/CodeCraft-Studio/studio-site/internal/blob"
)

var gradientName = regexp.MustCompile(`^[a-z0-9-]+$`)

// ID is a backend identifier, sent either as a JSON number or a string.
type ID string

// UnmarshalJSON accepts numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*id = ""
		return nil
	}

	*id = ID(strings.Trim(s, `"`))

	return nil
}

// Project is a portfolio entry kept by the backend.
type Project struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image,omitempty"`
	ImageData   []byte     `json:"image_data,omitempty"`
	ImageType   string     `json:"image_type,omitempty"`
	Link        string     `json:"link,omitempty"`
	Gradient    string     `json:"gradient,omitempty"`
	Tags        []string   `json:"tags"`
	Features    []string   `json:"features"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// DisplayImage resolves the image to show: the external URL first, else the
// embedded bytes as a data URI, else empty. Embedded bytes without an image
// content type are sniffed; data URIs only carry blob.ImageTypes.
func (p *Project) DisplayImage() string {
	if p.Image != "" {
		return p.Image
	}

	if len(p.ImageData) == 0 {
		return ""
	}

	ct := strings.ToLower(strings.TrimSpace(p.ImageType))
	if !blob.IsImageType(ct) {
		ct = mimetype.Detect(p.ImageData).String()
	}

	if !blob.IsImageType(ct) {
		return ""
	}

	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(p.ImageData)
}

// GradientClass turns the gradient name into a css class, e.g. "sunset"
// into "gradient-sunset". Anything but a plain name yields no class.
func (p Project) GradientClass() string {
	name := strings.ToLower(strings.TrimSpace(p.Gradient))
	if name == "" || !gradientName.MatchString(name) {
		return ""
	}

	return "gradient-" + name
}

// ProjectInput is the form sent on create and update.
type ProjectInput struct {
	Title       string
	Description string
	Link        string
	Gradient    string
	ImageURL    string
	Tags        []string
	Features    []string
	File        *FormFile
}

func (in ProjectInput) form() *Form {
	f := &Form{Fields: url.Values{}}

	f.Fields.Set("title", in.Title)
	f.Fields.Set("description", in.Description)
	f.Fields.Set("link", in.Link)
	f.Fields.Set("gradient", in.Gradient)

	for _, t := range in.Tags {
		f.Fields.Add("tags[]", t)
	}

	for _, feat := range in.Features {
		f.Fields.Add("features[]", feat)
	}

	switch {
	case in.File != nil:
		file := *in.File
		file.Field = "image"
		f.Files = append(f.Files, file)
	case in.ImageURL != "":
		f.Fields.Set("image", in.ImageURL)
	}

	return f
}

// Projects is the project resource of the backend.
type Projects struct {
	c *Client
}

// List returns all projects.
func (p *Projects) List(ctx context.Context) ([]Project, error) {
	var out []Project

	err := p.c.do(ctx, http.MethodGet, "/projects", nil, func(raw []byte) error {
		var err error
		out, err = decodeList(raw)

		return err
	})
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []Project{}
	}

	return out, nil
}

// Get returns one project.
func (p *Projects) Get(ctx context.Context, id string) (*Project, error) {
	return p.one(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil)
}

// Create sends a multipart create request.
func (p *Projects) Create(ctx context.Context, in ProjectInput) (*Project, error) {
	return p.one(ctx, http.MethodPost, "/admin/projects", in.form())
}

// Update sends a multipart POST carrying _method=PUT; the backend only
// accepts multipart bodies on POST.
func (p *Projects) Update(ctx context.Context, id string, in ProjectInput) (*Project, error) {
	f := in.form()
	f.Fields.Set("_method", http.MethodPut)

	return p.one(ctx, http.MethodPost, "/admin/projects/"+url.PathEscape(id), f)
}

// Delete removes a project.
func (p *Projects) Delete(ctx context.Context, id string) error {
	return p.c.do(ctx, http.MethodDelete, "/admin/projects/"+url.PathEscape(id), nil, nil)
}

func (p *Projects) one(ctx context.Context, method, path string, payload any) (*Project, error) {
	var out *Project

	err := p.c.do(ctx, method, path, payload, func(raw []byte) error {
		var err error
		out, err = decodeOne(raw)

		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// decodeList normalizes a bare array and an object with a data array.
func decodeList(raw []byte) ([]Project, error) {
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var list []Project
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode project list: %w", err)
		}

		return list, nil
	}

	var wrapped struct {
		Data []Project `json:"data"`
	}

	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode project list: %w", err)
	}

	return wrapped.Data, nil
}

// decodeOne normalizes a bare object and an object with a data object.
func decodeOne(raw []byte) (*Project, error) {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}

	if d := bytes.TrimSpace(wrapped.Data); len(d) > 0 && d[0] == '{' {
		raw = d
	}

	out := new(Project)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}

	return out, nil
}
