package circulation

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"librarian/internal/models"
	"librarian/internal/storage"
)

// Service enforces the borrowing rules over the catalogue and the registry
type Service struct {
	books   storage.Catalogue
	members storage.Registry
	clock   Clock
	logger  *zap.Logger
}

// NewService creates a circulation service. A nil clock means the system clock.
func NewService(books storage.Catalogue, members storage.Registry, clock Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		books:   books,
		members: members,
		clock:   clock,
		logger:  logger,
	}
}

// Return is the outcome of returning a book
type Return struct {
	Book        models.Book
	DaysOverdue int
	Fine        int
}

// RegisterMember adds a member with the next sequential ID
func (s *Service) RegisterMember(name string) (models.Member, error) {
	m, err := s.members.Register(name)
	if err != nil {
		s.logger.Error("Failed to register member", zap.Error(err))
		return models.Member{}, err
	}

	s.logger.Info("Member registered", zap.Int("member_id", m.ID), zap.String("name", m.Name))
	return m, nil
}

// Member returns a registered member
func (s *Service) Member(id int) (models.Member, error) {
	return s.member(id)
}

// Book returns a catalogue book
func (s *Service) Book(id int) (models.Book, error) {
	return s.book(id)
}

// Issue lends the book to the member for LoanPeriod.
//
// Rules:
//   - member and book IDs must be valid, otherwise ErrInvalidID
//   - the book must be available, otherwise ErrBookUnavailable
//
// The availability check and the write happen in one catalogue transaction.
func (s *Service) Issue(memberID, bookID int) (models.Book, error) {
	if _, err := s.member(memberID); err != nil {
		return s.reject("issue", memberID, bookID, err)
	}
	if _, err := s.book(bookID); err != nil {
		return s.reject("issue", memberID, bookID, err)
	}

	dueAt := DueDate(s.clock.Now())
	book, err := s.books.Update(bookID, func(b *models.Book) error {
		if b.IsBorrowed() {
			return fmt.Errorf("book %d: %w", bookID, ErrBookUnavailable)
		}
		b.Lend(memberID, dueAt)
		return nil
	})
	if err != nil {
		return s.reject("issue", memberID, bookID, s.mapNotFound(err))
	}

	s.logger.Info("Book issued",
		zap.Int("member_id", memberID),
		zap.Int("book_id", bookID),
		zap.Time("due_at", book.DueAt),
	)
	return book, nil
}

// ReturnBook takes the book back and computes the fine for any full days past the due date.
//
// Rules:
//   - member and book IDs must be valid, otherwise ErrInvalidID
//   - the book must be borrowed, otherwise ErrNotBorrowed
//
// The due date stays on the record after the return.
func (s *Service) ReturnBook(memberID, bookID int) (Return, error) {
	if _, err := s.member(memberID); err != nil {
		_, err = s.reject("return", memberID, bookID, err)
		return Return{}, err
	}
	if _, err := s.book(bookID); err != nil {
		_, err = s.reject("return", memberID, bookID, err)
		return Return{}, err
	}

	now := s.clock.Now()
	var previousBorrower int
	book, err := s.books.Update(bookID, func(b *models.Book) error {
		if !b.IsBorrowed() {
			return fmt.Errorf("book %d: %w", bookID, ErrNotBorrowed)
		}
		previousBorrower = b.BorrowerID
		b.Release()
		return nil
	})
	if err != nil {
		_, err = s.reject("return", memberID, bookID, s.mapNotFound(err))
		return Return{}, err
	}

	if previousBorrower != memberID {
		s.logger.Warn("Book returned by a member other than the borrower",
			zap.Int("member_id", memberID),
			zap.Int("borrower_id", previousBorrower),
			zap.Int("book_id", bookID),
		)
	}

	result := Return{Book: book}
	if now.After(book.DueAt) {
		result.DaysOverdue = DaysOverdue(book.DueAt, now)
		result.Fine = result.DaysOverdue * FineRatePerDay
	}

	s.logger.Info("Book returned",
		zap.Int("member_id", memberID),
		zap.Int("book_id", bookID),
		zap.Int("days_overdue", result.DaysOverdue),
		zap.Int("fine", result.Fine),
	)
	return result, nil
}

// BooksBorrowedBy yields the books the member currently holds, in catalogue order.
// The sequence rescans the catalogue each time it is ranged over.
func (s *Service) BooksBorrowedBy(memberID int) (iter.Seq[models.Book], error) {
	if _, err := s.member(memberID); err != nil {
		return nil, err
	}

	return func(yield func(models.Book) bool) {
		for b := range s.books.All() {
			if b.IsBorrowed() && b.BorrowerID == memberID {
				if !yield(b) {
					return
				}
			}
		}
	}, nil
}

// OutstandingFine sums the fines the member would owe for overdue books still held.
// Nothing is written.
func (s *Service) OutstandingFine(memberID int) (int, error) {
	if _, err := s.member(memberID); err != nil {
		return 0, err
	}

	now := s.clock.Now()
	fine := 0
	for b := range s.books.All() {
		if b.IsBorrowed() && b.BorrowerID == memberID && b.DueAt.Before(now) {
			fine += FineFor(b.DueAt, now)
		}
	}
	return fine, nil
}

func (s *Service) member(id int) (models.Member, error) {
	m, err := s.members.Get(id)
	if err != nil {
		return models.Member{}, s.mapNotFound(err)
	}
	return m, nil
}

func (s *Service) book(id int) (models.Book, error) {
	b, err := s.books.Get(id)
	if err != nil {
		return models.Book{}, s.mapNotFound(err)
	}
	return b, nil
}

// mapNotFound turns a storage lookup miss into ErrInvalidID for callers of the service
func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return err
}

func (s *Service) reject(op string, memberID, bookID int, err error) (models.Book, error) {
	s.logger.Warn("Operation rejected",
		zap.String("operation", op),
		zap.Int("member_id", memberID),
		zap.Int("book_id", bookID),
		zap.Error(err),
	)
	return models.Book{}, err
}
