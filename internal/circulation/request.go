package circulation

import (
	"fmt"
	"slices"

	"librarian/internal/models"
)

// Action selects the operation a Request performs
type Action int

const (
	ActionRegister Action = iota + 1
	ActionIssue
	ActionReturn
	ActionListBorrowed
	ActionOutstandingFine
)

func (a Action) String() string {
	switch a {
	case ActionRegister:
		return "register"
	case ActionIssue:
		return "issue"
	case ActionReturn:
		return "return"
	case ActionListBorrowed:
		return "list_borrowed"
	case ActionOutstandingFine:
		return "outstanding_fine"
	default:
		return "unknown"
	}
}

// Request is a single operation against the service
type Request struct {
	Action   Action
	MemberID int
	BookID   int
	Name     string
}

// Result carries whatever the executed action produced
type Result struct {
	Action      Action
	Member      models.Member
	Book        models.Book
	Borrowed    []models.Book
	DaysOverdue int
	Fine        int
}

// Execute runs the request against the service
func (s *Service) Execute(req Request) (Result, error) {
	res := Result{Action: req.Action}

	switch req.Action {
	case ActionRegister:
		m, err := s.RegisterMember(req.Name)
		if err != nil {
			return res, err
		}
		res.Member = m

	case ActionIssue:
		b, err := s.Issue(req.MemberID, req.BookID)
		if err != nil {
			return res, err
		}
		res.Book = b

	case ActionReturn:
		r, err := s.ReturnBook(req.MemberID, req.BookID)
		if err != nil {
			return res, err
		}
		res.Book = r.Book
		res.DaysOverdue = r.DaysOverdue
		res.Fine = r.Fine

	case ActionListBorrowed:
		m, err := s.Member(req.MemberID)
		if err != nil {
			return res, err
		}
		books, err := s.BooksBorrowedBy(req.MemberID)
		if err != nil {
			return res, err
		}
		res.Member = m
		res.Borrowed = slices.Collect(books)

	case ActionOutstandingFine:
		m, err := s.Member(req.MemberID)
		if err != nil {
			return res, err
		}
		fine, err := s.OutstandingFine(req.MemberID)
		if err != nil {
			return res, err
		}
		res.Member = m
		res.Fine = fine

	default:
		return res, fmt.Errorf("unknown action %d", req.Action)
	}

	return res, nil
}
