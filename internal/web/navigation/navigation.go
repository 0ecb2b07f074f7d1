// Package navigation builds the admin sidebar and breadcrumbs.
package navigation

// Sidebar sections.
const (
	SectionDashboard = "dashboard"
	SectionContent   = "content"
	SectionAdmin     = "admin"
)

// DashboardURL is the first breadcrumb of every admin page.
const DashboardURL = "/admin"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one sidebar link.
type MenuItem struct {
	Title   string
	URL     string
	Section string
	Page    string
	Active  bool
}

// menu is the sidebar in display order.
var menu = []MenuItem{ //nolint:gochecknoglobals
	{Title: "Dashboard", URL: DashboardURL, Section: SectionDashboard, Page: "dashboard"},
	{Title: "Experts", URL: "/admin/experts", Section: SectionContent, Page: "experts"},
	{Title: "Services", URL: "/admin/services", Section: SectionContent, Page: "services"},
	{Title: "Industries", URL: "/admin/industries", Section: SectionContent, Page: "industries"},
	{Title: "Projects", URL: "/admin/projects", Section: SectionContent, Page: "projects"},
	{Title: "Users", URL: "/admin/users", Section: SectionAdmin, Page: "users"},
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// Page is the context of an admin page below the dashboard: the breadcrumbs
// are Dashboard, then title linking to listURL. Use Child for a sub page.
func Page(title, section, page, listURL string) *Context {
	return NewContext(title, section, page).
		AddBreadcrumb("Dashboard", DashboardURL, false).
		AddBreadcrumb(title, listURL, true)
}

// Child appends an active breadcrumb for a sub page such as a form.
// An empty title leaves the context unchanged.
func (c *Context) Child(title string) *Context {
	if title == "" {
		return c
	}

	if n := len(c.Breadcrumbs); n > 0 {
		c.Breadcrumbs[n-1].Active = false
	}

	return c.AddBreadcrumb(title, "#", true)
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// Menu returns the sidebar with the current page marked active.
func (c *Context) Menu() []MenuItem {
	items := make([]MenuItem, len(menu))
	for i, item := range menu {
		item.Active = c.IsActive(item.Section, item.Page)
		items[i] = item
	}

	return items
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
