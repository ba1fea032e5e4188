package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/filex"
)

// LocalStore keeps images in a directory on the local disk.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed. A relative dir is resolved against the
// working directory.
func NewLocalStore(dir string) (*LocalStore, error) {
	full, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &LocalStore{dir: full}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name string, body io.Reader) error {
	if !validName(name) {
		return fmt.Errorf("%w: invalid file name %q", common.ErrorValidation, name)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if !validName(name) {
		return common.ErrorNotFound
	}
	removed, err := filex.RemoveIfExists(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if !removed {
		return common.ErrorNotFound
	}
	return nil
}

func (s *LocalStore) Handler() http.Handler {
	return http.FileServer(http.Dir(s.dir))
}
