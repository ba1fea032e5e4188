// Package media stores uploaded story images. Objects are addressed by a flat
// file name; URL building and name generation live in services.MediaService.
package media

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"
)

type Store interface {
	// Save writes body under name, replacing any previous object.
	Save(ctx context.Context, name string, body io.Reader) error
	// Delete removes name; common.ErrorNotFound if it does not exist.
	Delete(ctx context.Context, name string) error
	// Handler serves GET requests whose path ends with an object name.
	Handler() http.Handler
}

// validName rejects anything that could escape the storage namespace.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return path.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
