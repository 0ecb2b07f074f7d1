package config

import (
	"time"

	"github.com/CodeCraft-Studio/studio-site/internal/logger"
)

// Supported upload drivers.
const (
	UploadDriverFS = "fs"
	UploadDriverS3 = "s3"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // lifetime of a server side session and its cookie
	CookieName string        // name of the cookie carrying the session token
}

// Admin holds the account seeded on first start when no admin user exists.
type Admin struct {
	Email    string
	Password string
	Name     string
}

// S3 holds settings for the s3 upload driver.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. a MinIO endpoint
	PathStyle bool
	PublicURL string // base URL objects are served from
}

// Upload holds settings for the image upload endpoint.
type Upload struct {
	Driver  string // fs or s3
	Root    string // root directory for the fs driver
	MaxSize int64  // size ceiling in bytes
	URLPath string // path uploaded files are served under (fs driver)
	S3      S3
}

// Backend holds settings for the REST backend serving projects.
type Backend struct {
	URL     string
	Timeout time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Admin     Admin
	Upload    Upload
	Backend   Backend
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic bool    // enable static file browsing (for development purposes only)
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}
