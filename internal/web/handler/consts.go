package handler

const (
	// BaseLayout is the layout of the admin area.
	BaseLayout = "layouts/base"

	// PublicLayout is the layout of the public site.
	PublicLayout = "layouts/public"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root of a route group.
	RouterRootPath = "/"

	// AdminPath is the protected admin area.
	AdminPath = "/admin"

	// APIPath prefixes the JSON API.
	APIPath = "/api"

	// DefaultPageSize for admin lists.
	DefaultPageSize = 25

	// ErrNilDepsFatalLogMsg is used if app or a required dependency is nil.
	ErrNilDepsFatalLogMsg = "app or a handler dependency is nil"
)
