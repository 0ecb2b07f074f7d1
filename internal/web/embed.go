package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// TemplateDir is read from disk instead of the embedded copy in dev mode.
const TemplateDir = "./internal/web/templates"

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// templateFS serves the embedded templates with "templates/" stripped, so
// names match the ones used with TemplateDir.
func templateFS() http.FileSystem {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}
