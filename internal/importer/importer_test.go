package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librarian/internal/models"
	"librarian/internal/storage"
	"librarian/internal/storage/mem"
)

func TestParseLine(t *testing.T) {
	book, err := ParseLine("1,Dune,412,Frank,Herbert,SciFi")
	require.NoError(t, err)

	assert.Equal(t, 1, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, 412, book.PageCount)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, "SciFi", book.Genre)
	assert.Equal(t, models.Available, book.State)
	assert.Equal(t, models.NoBorrower, book.BorrowerID)
}

func TestParseLine_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{name: "non-numeric id and page count", line: "x,Title,abc,First,Last,Genre"},
		{name: "non-numeric page count", line: "2,Title,abc,First,Last,Genre"},
		{name: "too few fields", line: "3,Title,100,First,Genre"},
		{name: "too many fields", line: "4,Title, with comma,100,First,Last,Genre"},
		{name: "zero id", line: "0,Title,100,First,Last,Genre"},
		{name: "negative id", line: "-5,Title,100,First,Last,Genre"},
		{name: "negative page count", line: "5,Title,-1,First,Last,Genre"},
		{name: "numeric prefix only", line: "6x,Title,100,First,Last,Genre"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLine(tc.line)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestParseLine_TrimsNumericFields(t *testing.T) {
	book, err := ParseLine(" 7 ,Emma, 474 ,Jane,Austen,Classic")
	require.NoError(t, err)
	assert.Equal(t, 7, book.ID)
	assert.Equal(t, 474, book.PageCount)
}

func TestRead_ContinuesAfterBadLines(t *testing.T) {
	src := strings.Join([]string{
		"1,Dune,412,Frank,Herbert,SciFi",
		"x,Title,abc,First,Last,Genre",
		"",
		"2,Emma,474,Jane,Austen,Classic\r",
		"broken line",
	}, "\n")

	report, err := Read(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, report.Books, 2)
	assert.Equal(t, "Dune", report.Books[0].Title)
	assert.Equal(t, "Classic", report.Books[1].Genre, "carriage return is trimmed")

	require.Len(t, report.Rejected, 2)
	assert.Equal(t, 2, report.Rejected[0].Line)
	assert.Equal(t, "x,Title,abc,First,Last,Genre", report.Rejected[0].Text)
	assert.Equal(t, 5, report.Rejected[1].Line)
	assert.ErrorIs(t, report.Err(), ErrMalformedRecord)
}

func TestRead_Empty(t *testing.T) {
	report, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, report.Books)
	assert.NoError(t, report.Err())
}

func TestImport(t *testing.T) {
	cat, err := mem.NewCatalogue()
	require.NoError(t, err)

	src := strings.Join([]string{
		"1,Dune,412,Frank,Herbert,SciFi",
		"x,Title,abc,First,Last,Genre",
		"1,Dune Duplicate,412,Frank,Herbert,SciFi",
		"2,Emma,474,Jane,Austen,Classic",
	}, "\n")

	summary, err := Import(cat, strings.NewReader(src), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Loaded)
	require.Len(t, summary.Rejected, 2)
	assert.ErrorIs(t, summary.Rejected[0], ErrMalformedRecord)
	assert.ErrorIs(t, summary.Rejected[1], storage.ErrDuplicateID)

	assert.Equal(t, 2, cat.Len())
	b, err := cat.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)

	for b := range cat.All() {
		assert.NotEqual(t, "Title", b.Title, "malformed line must not reach the catalogue")
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,Dune,412,Frank,Herbert,SciFi\n"), 0o644))

	cat, err := mem.NewCatalogue()
	require.NoError(t, err)

	summary, err := ImportFile(cat, path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Loaded)
	assert.Empty(t, summary.Rejected)

	_, err = ImportFile(cat, filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	assert.Error(t, err)
}
