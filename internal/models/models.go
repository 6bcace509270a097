package models

import "time"

// NoBorrower marks a book that is not lent to anyone
const NoBorrower = -1

// BorrowState is the circulation state of a book
type BorrowState int

const (
	Available BorrowState = iota
	Borrowed
)

func (s BorrowState) String() string {
	switch s {
	case Available:
		return "available"
	case Borrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}

// Book represents a book in the catalogue
type Book struct {
	ID         int
	Title      string
	Author     string
	Genre      string
	PageCount  int
	State      BorrowState
	DueAt      time.Time // meaningful only while borrowed
	BorrowerID int       // member ID, NoBorrower when available
}

// NewBook creates an available book
func NewBook(id int, title, author, genre string, pageCount int) Book {
	return Book{
		ID:         id,
		Title:      title,
		Author:     author,
		Genre:      genre,
		PageCount:  pageCount,
		State:      Available,
		BorrowerID: NoBorrower,
	}
}

// IsBorrowed reports whether the book is currently lent out
func (b Book) IsBorrowed() bool {
	return b.State == Borrowed
}

// Lend moves the book to the borrowed state.
// All three fields change together so the book is never half-lent.
func (b *Book) Lend(memberID int, dueAt time.Time) {
	b.State = Borrowed
	b.BorrowerID = memberID
	b.DueAt = dueAt
}

// Release moves the book back to the available state.
// DueAt is kept as it was.
func (b *Book) Release() {
	b.State = Available
	b.BorrowerID = NoBorrower
}

// Member represents a registered library member
type Member struct {
	ID   int
	Name string
}
