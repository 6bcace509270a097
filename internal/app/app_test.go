package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"librarian/internal/config"
)

func testConfig(t *testing.T, csv string) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "library_books.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	cfg := config.Default()
	cfg.BooksFile = path
	cfg.Prompts = config.PromptsNever
	return cfg
}

func TestNew_ImportsBooks(t *testing.T) {
	cfg := testConfig(t, "1,Dune,412,Frank,Herbert,SciFi\nbad line\n2,Emma,474,Jane,Austen,Classic\n")

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	summary := a.ImportSummary()
	assert.Equal(t, 2, summary.Loaded)
	assert.Len(t, summary.Rejected, 1)

	books := slices.Collect(a.Books())
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Emma", books[1].Title)
}

func TestNew_MissingBooksFile(t *testing.T) {
	cfg := config.Default()
	cfg.BooksFile = filepath.Join(t.TempDir(), "missing.csv")

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Zero(t, a.ImportSummary().Loaded)
	for range a.Books() {
		t.Fatal("catalogue should be empty")
	}
}

func TestRun_Session(t *testing.T) {
	cfg := testConfig(t, "1,Dune,412,Frank,Herbert,SciFi\n")

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	err = a.Run(context.Background(), strings.NewReader("1\nAnn\n2\n1\n1\n5\n1\n6\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Member ID: 1 | Name: Ann")
	assert.Contains(t, out.String(), "Book issued successfully!")
	assert.Contains(t, out.String(), "Fine for Member ID 1: £0")
	assert.NotContains(t, out.String(), "Library Management System Menu:")

	book, err := a.Service().Book(1)
	require.NoError(t, err)
	assert.True(t, book.IsBorrowed())

	a.Shutdown()
}

func TestRun_CancelledContext(t *testing.T) {
	a, err := New(testConfig(t, ""), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	assert.NoError(t, a.Run(ctx, r, &bytes.Buffer{}), "cancellation is a clean shutdown")
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	cfg.LogDevelopment = true
	cfg.LogLevel = "debug"
	logger, err = NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
