// internal/files/local_test.go
package files

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loantracker/internal/common/errors"
	"loantracker/internal/models"
)

func TestLocal_SaveListOpen(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, l.Save(ctx, "smith_robert_abc/id_proof.pdf", strings.NewReader("licence")))
	require.NoError(t, l.Save(ctx, "smith_robert_abc/pay_stub.pdf", strings.NewReader("stub")))
	require.NoError(t, l.Save(ctx, "doe_john_def/contract.pdf", strings.NewReader("contract")))

	keys, err := l.List(ctx, "smith_robert_abc")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"smith_robert_abc/id_proof.pdf",
		"smith_robert_abc/pay_stub.pdf",
	}, keys)

	rc, err := l.Open(ctx, "smith_robert_abc/id_proof.pdf")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "licence", string(data))
}

func TestLocal_SaveReplaces(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, l.Save(ctx, "a/b.pdf", strings.NewReader("old")))
	require.NoError(t, l.Save(ctx, "a/b.pdf", strings.NewReader("new")))

	rc, err := l.Open(ctx, "a/b.pdf")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "new", string(data))
}

func TestLocal_ListMissingPrefix(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	keys, err := l.List(context.Background(), "nothing_here")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocal_OpenMissing(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.Open(context.Background(), "missing/file.pdf")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestPrefixAndKey(t *testing.T) {
	app := &models.Application{
		ID: "abc-123",
		MainApplicant: models.Applicant{
			FirstName: "Jean-Luc",
			LastName:  "O'Neil",
		},
	}

	assert.Equal(t, "oneil_jean_luc_abc-123", Prefix(app))
	assert.Equal(t, "oneil_jean_luc_abc-123/id_proof.png", Key(app, models.FileTypeIDProof, "photo.png"))
	// Missing extension defaults to pdf.
	assert.Equal(t, "oneil_jean_luc_abc-123/contract.pdf", Key(app, models.FileTypeContract, "contract"))
}
