package materials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophquiz/internal/common"
)

// LocalStore serves materials from a directory on disk.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Locate(ctx context.Context, name string) (*Location, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	full := filepath.Join(s.root, filepath.FromSlash(clean))
	fi, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("stat material: %w", err)
	}
	if fi.IsDir() {
		return nil, common.ErrorNotFound
	}

	return &Location{FilePath: full}, nil
}
