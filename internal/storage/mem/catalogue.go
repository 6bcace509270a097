package mem

import (
	"fmt"
	"iter"
	"time"

	"github.com/hashicorp/go-memdb"
	"go.uber.org/multierr"

	"librarian/internal/models"
	"librarian/internal/storage"
)

// Catalogue is an in-memory book catalogue backed by go-memdb
type Catalogue struct {
	db *memdb.MemDB
}

var _ storage.Catalogue = (*Catalogue)(nil)

// NewCatalogue creates an empty catalogue
func NewCatalogue() (*Catalogue, error) {
	db, err := newDB(bookTableSchema())
	if err != nil {
		return nil, err
	}
	return &Catalogue{db: db}, nil
}

// Load adds books in order within one transaction. Rejected books are skipped.
func (c *Catalogue) Load(books []models.Book) (int, error) {
	txn := c.db.Txn(true)
	defer txn.Abort()

	seq, err := size(txn)
	if err != nil {
		return 0, fmt.Errorf("loading books: %w", err)
	}

	var errs error
	loaded := 0
	for _, b := range books {
		if b.ID <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("book %d: id must be positive", b.ID))
			continue
		}

		existing, err := txn.First(bookTable, "id", b.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("book %d: %w", b.ID, err))
			continue
		}
		if existing != nil {
			errs = multierr.Append(errs, fmt.Errorf("book %d: %w", b.ID, storage.ErrDuplicateID))
			continue
		}

		if err := txn.Insert(bookTable, toStoredBook(seq+1, b)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("book %d: %w", b.ID, err))
			continue
		}
		seq++
		loaded++
	}

	txn.Commit()
	return loaded, errs
}

// Get returns the book with the given ID
func (c *Catalogue) Get(id int) (models.Book, error) {
	txn := c.db.Txn(false)
	defer txn.Abort()

	row, err := lookup(txn, id)
	if err != nil {
		return models.Book{}, err
	}
	return row.toModel(), nil
}

// Len returns the number of books in the catalogue
func (c *Catalogue) Len() int {
	txn := c.db.Txn(false)
	defer txn.Abort()

	n, err := size(txn)
	if err != nil {
		return 0
	}
	return n
}

// All yields books in insertion order from a fresh snapshot on every iteration
func (c *Catalogue) All() iter.Seq[models.Book] {
	return func(yield func(models.Book) bool) {
		txn := c.db.Txn(false)
		defer txn.Abort()

		it, err := txn.Get(bookTable, "seq")
		if err != nil {
			return
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			if !yield(obj.(storedBook).toModel()) {
				return
			}
		}
	}
}

// Update runs fn against the book and writes the result in the same transaction
func (c *Catalogue) Update(id int, fn func(b *models.Book) error) (models.Book, error) {
	txn := c.db.Txn(true)
	defer txn.Abort()

	row, err := lookup(txn, id)
	if err != nil {
		return models.Book{}, err
	}

	b := row.toModel()
	if err := fn(&b); err != nil {
		return models.Book{}, err
	}
	// ID is the primary key and may not change
	b.ID = row.ID

	if err := txn.Insert(bookTable, toStoredBook(row.Seq, b)); err != nil {
		return models.Book{}, fmt.Errorf("updating book %d: %w", id, err)
	}

	txn.Commit()
	return b, nil
}

// SetBorrowed marks the book as lent to memberID until dueAt
func (c *Catalogue) SetBorrowed(id, memberID int, dueAt time.Time) (models.Book, error) {
	return c.Update(id, func(b *models.Book) error {
		b.Lend(memberID, dueAt)
		return nil
	})
}

// SetReturned marks the book as available
func (c *Catalogue) SetReturned(id int) (models.Book, error) {
	return c.Update(id, func(b *models.Book) error {
		b.Release()
		return nil
	})
}

// size returns the highest sequence number, which equals the row count since rows are never deleted
func size(txn *memdb.Txn) (int, error) {
	raw, err := txn.Last(bookTable, "seq")
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	return raw.(storedBook).Seq, nil
}

func lookup(txn *memdb.Txn, id int) (storedBook, error) {
	n, err := size(txn)
	if err != nil {
		return storedBook{}, fmt.Errorf("searching book %d: %w", id, err)
	}
	if id <= 0 || id > n {
		return storedBook{}, fmt.Errorf("book %d: %w", id, storage.ErrNotFound)
	}

	raw, err := txn.First(bookTable, "id", id)
	if err != nil {
		return storedBook{}, fmt.Errorf("searching book %d: %w", id, err)
	}
	if raw == nil {
		return storedBook{}, fmt.Errorf("book %d: %w", id, storage.ErrNotFound)
	}
	return raw.(storedBook), nil
}
