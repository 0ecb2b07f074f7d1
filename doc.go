// Package main provides the entry point of studio-site.
// It serves the public marketing pages of the studio, an admin dashboard for
// experts, services, industries, users and projects, and a JSON API with an
// image upload endpoint. Content lives in a relational database through gorm,
// projects live on a separate REST backend.
package main
