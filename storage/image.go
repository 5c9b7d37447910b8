package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rpupo63/portfolio-backend/errs"
)

const svgMediaType = "image/svg+xml"

// mediaType returns the bare media type of contentType, sniffing data when it is empty.
func mediaType(contentType string, data []byte) string {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// imageExtension checks that data is an image and returns the extension to store it under.
// SVG is accepted on its media type alone; raster formats must decode.
func imageExtension(name, contentType string, data []byte) (string, error) {
	mt := mediaType(contentType, data)
	if !strings.HasPrefix(mt, "image/") {
		return "", errs.NewNotAnImageError(name, mt)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if mt == svgMediaType {
		return storedExtension(ext, "svg"), nil
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errs.NewNotAnImageError(name, mt)
	}
	return storedExtension(ext, format), nil
}

// formatExtensions lists the extensions accepted for each decoded format; the
// first one is used when the client's extension does not match.
var formatExtensions = map[string][]string{
	"jpeg": {"jpg", "jpeg"},
	"png":  {"png"},
	"gif":  {"gif"},
	"webp": {"webp"},
	"bmp":  {"bmp"},
	"tiff": {"tiff", "tif"},
	"svg":  {"svg"},
}

func storedExtension(ext, format string) string {
	accepted, ok := formatExtensions[format]
	if !ok {
		return format
	}
	if slices.Contains(accepted, ext) {
		return ext
	}
	return accepted[0]
}

// newFilename returns "<epoch-ms>-<random base36>.<ext>".
func newFilename(now time.Time, ext string) string {
	id := uuid.New()
	random := strconv.FormatUint(binary.BigEndian.Uint64(id[8:]), 36)
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), random, ext)
}

// FilenameTime reads the upload time encoded in a generated filename or key.
// Only a 13-digit epoch-ms prefix counts.
func FilenameTime(key string) (time.Time, bool) {
	base := filepath.Base(key)
	prefix, _, found := strings.Cut(base, "-")
	if !found {
		return time.Time{}, false
	}
	if len(prefix) != 13 || strings.IndexFunc(prefix, notDigit) >= 0 {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func notDigit(r rune) bool { return r < '0' || r > '9' }
