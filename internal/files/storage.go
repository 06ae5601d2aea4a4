// internal/files/storage.go

// Package files abstracts document storage for application uploads.
// Keys follow the "<last>_<first>_<id>/<file_type><ext>" layout so a
// bucket listing groups every document for one application together.
package files

import (
	"context"
	"io"
	"path"
	"strings"

	"loantracker/internal/models"
)

// Storage stores and retrieves uploaded documents by key. Saving to an
// existing key replaces its contents; the last write wins.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader) error
	List(ctx context.Context, prefix string) ([]string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Prefix derives the per-application key prefix from the main
// applicant's name and the record identifier.
func Prefix(app *models.Application) string {
	last := sanitize(app.MainApplicant.LastName)
	first := sanitize(app.MainApplicant.FirstName)
	return last + "_" + first + "_" + app.ID
}

// Key builds the full storage key for a file slot, keeping the uploaded
// file's extension.
func Key(app *models.Application, fileType models.FileType, filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	return Prefix(app) + "/" + string(fileType) + ext
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune('_')
		}
	}
	return b.String()
}
