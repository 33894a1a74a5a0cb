package docx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Full Name: </w:t></w:r><w:r><w:t>John Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Sex: Male</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Nationality</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Nigerian</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Qualification</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>BSc</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractFile_ParagraphsAndTables(t *testing.T) {
	path := writeDocx(t, sampleDocument)

	text, err := ExtractFile(path)
	require.NoError(t, err)

	// Paragraphs in document order, split runs joined.
	assert.Contains(t, text, "Full Name: John Doe")
	assert.Contains(t, text, "Sex: Male")

	// Table cells flattened row-major with a space between cells.
	assert.Contains(t, text, "Nationality Nigerian")
	assert.Contains(t, text, "Qualification BSc")
}

func TestExtractFile_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := ExtractFile(path)
	assert.Error(t, err)
}

func TestExtractFile_MissingDocumentEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = ExtractFile(path)
	assert.ErrorContains(t, err, "word/document.xml")
}
