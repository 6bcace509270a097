package mem

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"librarian/internal/models"
	"librarian/internal/storage"
)

func newTestCatalogue(t *testing.T, books ...models.Book) *Catalogue {
	t.Helper()
	c, err := NewCatalogue()
	require.NoError(t, err)
	if len(books) > 0 {
		n, err := c.Load(books)
		require.NoError(t, err)
		require.Equal(t, len(books), n)
	}
	return c
}

func TestCatalogue_LoadAndGet(t *testing.T) {
	c := newTestCatalogue(t,
		models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412),
		models.NewBook(2, "Emma", "Jane Austen", "Classic", 474),
	)

	assert.Equal(t, 2, c.Len())

	b, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Frank Herbert", b.Author)
	assert.Equal(t, "SciFi", b.Genre)
	assert.Equal(t, 412, b.PageCount)
	assert.Equal(t, models.Available, b.State)
	assert.Equal(t, models.NoBorrower, b.BorrowerID)
	assert.True(t, b.DueAt.IsZero())
}

func TestCatalogue_GetOutOfRange(t *testing.T) {
	c := newTestCatalogue(t, models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412))

	for _, id := range []int{-1, 0, 2, 100} {
		_, err := c.Get(id)
		assert.ErrorIs(t, err, storage.ErrNotFound, "id %d", id)
	}
}

func TestCatalogue_GetInRangeButMissing(t *testing.T) {
	// IDs come from the import file and need not be dense
	c := newTestCatalogue(t,
		models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412),
		models.NewBook(7, "Emma", "Jane Austen", "Classic", 474),
	)

	_, err := c.Get(2)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// 7 exists but lies beyond the allocated range of two books
	_, err = c.Get(7)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCatalogue_LoadRejectsIndividually(t *testing.T) {
	c := newTestCatalogue(t)

	n, err := c.Load([]models.Book{
		models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412),
		models.NewBook(1, "Dune Again", "Frank Herbert", "SciFi", 412),
		models.NewBook(0, "Zero", "No One", "None", 1),
		models.NewBook(2, "Emma", "Jane Austen", "Classic", 474),
	})

	assert.Equal(t, 2, n)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], storage.ErrDuplicateID)

	b, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title, "first record wins")

	b, err = c.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Emma", b.Title)
}

func TestCatalogue_LoadExtends(t *testing.T) {
	c := newTestCatalogue(t, models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412))

	n, err := c.Load([]models.Book{models.NewBook(2, "Emma", "Jane Austen", "Classic", 474)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, c.Len())
}

func TestCatalogue_AllKeepsInsertionOrder(t *testing.T) {
	c := newTestCatalogue(t,
		models.NewBook(3, "C", "A", "G", 1),
		models.NewBook(1, "A", "A", "G", 1),
		models.NewBook(2, "B", "A", "G", 1),
	)

	var ids []int
	for b := range c.All() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)

	// restartable
	assert.Equal(t, slices.Collect(c.All()), slices.Collect(c.All()))
}

func TestCatalogue_SetBorrowedAndReturned(t *testing.T) {
	c := newTestCatalogue(t, models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412))
	due := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	b, err := c.SetBorrowed(1, 5, due)
	require.NoError(t, err)
	assert.Equal(t, models.Borrowed, b.State)
	assert.Equal(t, 5, b.BorrowerID)
	assert.Equal(t, due, b.DueAt)

	stored, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, b, stored)

	b, err = c.SetReturned(1)
	require.NoError(t, err)
	assert.Equal(t, models.Available, b.State)
	assert.Equal(t, models.NoBorrower, b.BorrowerID)
	assert.Equal(t, due, b.DueAt, "due date is kept after return")
}

func TestCatalogue_UpdateAbortsOnError(t *testing.T) {
	c := newTestCatalogue(t, models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412))
	errRule := errors.New("rule failed")

	_, err := c.Update(1, func(b *models.Book) error {
		b.Lend(9, time.Now())
		return errRule
	})
	assert.ErrorIs(t, err, errRule)

	b, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, models.Available, b.State)
	assert.Equal(t, models.NoBorrower, b.BorrowerID)
}

func TestCatalogue_UpdateKeepsID(t *testing.T) {
	c := newTestCatalogue(t, models.NewBook(1, "Dune", "Frank Herbert", "SciFi", 412))

	b, err := c.Update(1, func(b *models.Book) error {
		b.ID = 42
		b.Title = "Dune Messiah"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.ID)

	stored, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", stored.Title)
	assert.Equal(t, 1, c.Len())
}
