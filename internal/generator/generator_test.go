package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(dir)
	require.NoError(t, err)

	sessionID := uuid.New()

	t.Run("pdf", func(t *testing.T) {
		files, err := gen.Generate(sessionID, tailoredSample, FormatPDF, "modern")
		require.NoError(t, err)
		require.Len(t, files, 1)

		assert.Equal(t, FormatPDF, files[0].Format)
		assert.Equal(t, "tailored_resume_"+sessionID.String()+".pdf", files[0].Filename)
		assert.Greater(t, files[0].Size, int64(0))

		data, err := os.ReadFile(files[0].Path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(data[:4]))
	})

	t.Run("docx", func(t *testing.T) {
		files, err := gen.Generate(sessionID, tailoredSample, FormatDOCX, "classic")
		require.NoError(t, err)
		require.Len(t, files, 1)

		data, err := os.ReadFile(files[0].Path)
		require.NoError(t, err)
		assert.Equal(t, "PK", string(data[:2]), "DOCX should be a zip archive")
	})

	t.Run("both", func(t *testing.T) {
		files, err := gen.Generate(sessionID, tailoredSample, FormatBoth, "minimal")
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, FormatPDF, files[0].Format)
		assert.Equal(t, FormatDOCX, files[1].Format)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := gen.Generate(sessionID, tailoredSample, "rtf", "modern")
		assert.Error(t, err)
	})
}

func TestGenerator_Remove(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "file.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	gen.Remove([]string{path, filepath.Join(dir, "missing.pdf")})

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("pdf"))
	assert.True(t, ValidFormat("docx"))
	assert.True(t, ValidFormat("both"))
	assert.False(t, ValidFormat("rtf"))
	assert.False(t, ValidFormat(""))
}
