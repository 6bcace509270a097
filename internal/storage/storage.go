package storage

import (
	"errors"
	"iter"
	"time"

	"librarian/internal/models"
)

var (
	// ErrNotFound is returned for an ID outside the allocated range or with no record
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when a book ID is already in the catalogue
	ErrDuplicateID = errors.New("duplicate id")
)

// Catalogue defines the operations on book records
type Catalogue interface {
	// Load adds the records in order. A record that cannot be stored is skipped
	// and its error is combined into the returned error; the rest still load.
	Load(books []models.Book) (int, error)

	// Get returns the book with the given ID
	Get(id int) (models.Book, error)

	// Len returns the number of books, which is also the upper bound of valid IDs
	Len() int

	// All yields every book in insertion order. Each call rescans the catalogue.
	All() iter.Seq[models.Book]

	// Update applies fn to the book inside a single transaction. If fn returns
	// an error nothing is written and the error is returned unchanged.
	Update(id int, fn func(b *models.Book) error) (models.Book, error)

	// SetBorrowed and SetReturned are plain state writes. Callers check the
	// circulation rules beforehand.
	SetBorrowed(id, memberID int, dueAt time.Time) (models.Book, error)
	SetReturned(id int) (models.Book, error)
}

// Registry defines the operations on member records
type Registry interface {
	// Register allocates the next sequential ID and stores the member
	Register(name string) (models.Member, error)

	// Get returns the member for 1 <= id <= Len()
	Get(id int) (models.Member, error)

	// Len returns the number of registered members
	Len() int
}
