// Package gate decides per request whether a page may be served, must
// redirect to the login page, or must leave the login page for the dashboard.
//
// The decision is a pure function of the request path and the presence of a
// session; the middleware derives that presence from the session cookie on
// every request and keeps no state between requests. Every response that
// passes the gate carries no-cache headers.
//
// Usage:
//
//	app.Use(gate.New(sessions, gate.DefaultPaths()))
//	api.Post("/experts", gate.RequireAPISession(sessions), handler)
package gate
