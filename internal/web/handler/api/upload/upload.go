// Package upload stores images posted by the admin dashboard.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/blob"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
)

const (
	// Path is the upload endpoint.
	Path = handler.APIPath + "/upload"

	// DefaultFolder is used when the request names no folder.
	DefaultFolder = "uploads"

	// DefaultMaxSize applies when the configured ceiling is not positive.
	DefaultMaxSize = 5 << 20
)

// Allowed lists the accepted image types.
var Allowed = blob.ImageTypes //nolint:gochecknoglobals

var folderSegment = regexp.MustCompile(`[^a-z0-9_-]+`)

// Errors returned by ReadImage.
var (
	ErrTooLarge   = errors.New("file too large")
	ErrFileType   = errors.New("invalid file type")
	ErrUnreadable = errors.New("unreadable file")
)

// Result is the answer to a successful upload.
type Result struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url"`
}

// Service is the upload handler service.
type Service struct {
	handler.Service
	store   blob.Store
	maxSize int64
}

// New creates an upload service writing to store.
func New(store blob.Store, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &Service{store: store, maxSize: maxSize}
}

// Register adds the route behind guard.
func (s *Service) Register(app *fiber.App, guard fiber.Handler) {
	app.Post(Path, guard, s.Post)
}

// Post validates and stores the posted file.
func (s *Service) Post(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		fh, err = c.FormFile("file")
	}

	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "no file uploaded")
	}

	img, err := ReadImage(fh, s.maxSize)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, Message(err, s.maxSize))
	}

	res, err := Store(c.UserContext(), s.store, c.FormValue("folder"), img)
	if err != nil {
		return handler.JSONError(c, fiber.StatusInternalServerError, "failed to store file")
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

// Image is a validated image upload.
type Image struct {
	Name string // client side file name
	Data []byte
	MIME *mimetype.MIME
}

// ReadImage reads fh and checks it against maxSize and Allowed. Both the
// declared part type and the sniffed content must be allowed.
func ReadImage(fh *multipart.FileHeader, maxSize int64) (*Image, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if fh.Size > maxSize {
		return nil, ErrTooLarge
	}

	data, err := read(fh, maxSize)
	if err != nil {
		log.Error().Err(err).Str("file", fh.Filename).Msg("failed to read upload")
		return nil, ErrUnreadable
	}

	if int64(len(data)) > maxSize {
		return nil, ErrTooLarge
	}

	declared := mediaType(fh.Header.Get(fiber.HeaderContentType))
	sniffed := mimetype.Detect(data)

	if !mimetype.EqualsAny(declared, Allowed...) || !mimetype.EqualsAny(sniffed.String(), Allowed...) {
		return nil, ErrFileType
	}

	return &Image{Name: fh.Filename, Data: data, MIME: sniffed}, nil
}

// Store writes img to store as <folder>/<uuid><ext>.
func Store(ctx context.Context, store blob.Store, folder string, img *Image) (Result, error) {
	name := uuid.NewString() + img.MIME.Extension()
	key := Folder(folder) + "/" + name

	url, err := store.Put(ctx, key, img.Data, img.MIME.String())
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("driver", store.Driver()).Msg("failed to store upload")
		return Result{}, fmt.Errorf("store %s: %w", key, err)
	}

	log.Info().Str("key", key).Int("size", len(img.Data)).Msg("file uploaded")

	return Result{Filename: name, Path: key, URL: url}, nil
}

// Message is the user facing text of a ReadImage error.
func Message(err error, maxSize int64) string {
	switch {
	case errors.Is(err, ErrTooLarge):
		return TooLarge(maxSize)
	case errors.Is(err, ErrFileType):
		return "invalid file type, allowed: " + strings.Join(Allowed, ", ")
	default:
		return "unreadable file"
	}
}

// Folder sanitises a requested folder into lowercase slash separated
// segments. An empty result falls back to DefaultFolder.
func Folder(raw string) string {
	var parts []string

	for _, seg := range strings.Split(strings.ToLower(raw), "/") {
		if seg = strings.Trim(folderSegment.ReplaceAllString(seg, "-"), "-"); seg != "" {
			parts = append(parts, seg)
		}
	}

	if len(parts) == 0 {
		return DefaultFolder
	}

	return strings.Join(parts, "/")
}

// TooLarge is the error message for files over maxSize bytes.
func TooLarge(maxSize int64) string {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return fmt.Sprintf("file too large, maximum is %d bytes", maxSize)
}

func read(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer f.Close() //nolint:errcheck

	return io.ReadAll(io.LimitReader(f, limit+1)) //nolint:wrapcheck
}

func mediaType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}

	return strings.ToLower(strings.TrimSpace(v))
}
