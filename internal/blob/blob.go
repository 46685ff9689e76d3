// Package blob stores uploaded receipt images and hands back publicly
// resolvable URLs. The store is an external collaborator with a narrow
// contract: put bytes under a key, get a URL.
package blob

import (
	"context"
	"io"
)

// ObjectStore accepts a binary upload under a key like "{billID}/bill.jpg"
// and returns a URL the vision model (and browsers) can fetch.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// extByContentType maps accepted image content types to file extensions.
// Anything else falls back to jpg; non-image uploads are rejected before
// they reach the store.
var extByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
	"image/heif": "heif",
}

// Extension returns the file extension for an image content type.
func Extension(contentType string) string {
	if ext, ok := extByContentType[contentType]; ok {
		return ext
	}
	return "jpg"
}
