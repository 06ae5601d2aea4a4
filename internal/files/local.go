// internal/files/local.go
package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"loantracker/internal/common/errors"
)

// Local stores documents under a directory on the local filesystem.
// Keys map directly onto paths below the root.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.NewStorageError(err)
	}
	return &Local{root: root}, nil
}

func (l *Local) Save(ctx context.Context, key string, r io.Reader) error {
	p := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.NewStorageError(err)
	}
	f, err := os.Create(p)
	if err != nil {
		return errors.NewStorageError(err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return errors.NewStorageError(err)
	}
	return nil
}

func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	dir := filepath.Join(l.root, filepath.FromSlash(prefix))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.NewStorageError(err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		keys = append(keys, strings.TrimSuffix(prefix, "/")+"/"+e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError("", key)
		}
		return nil, errors.NewStorageError(err)
	}
	return f, nil
}
