package circulation

import "errors"

var (
	// ErrInvalidID is returned for a member or book ID outside the allocated range
	ErrInvalidID = errors.New("invalid id")
	// ErrBookUnavailable is returned when issuing a book that is already borrowed
	ErrBookUnavailable = errors.New("book is already borrowed")
	// ErrNotBorrowed is returned when returning a book that is not borrowed
	ErrNotBorrowed = errors.New("book is not borrowed")
)
