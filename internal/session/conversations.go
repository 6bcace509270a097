package session

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"librarian/internal/circulation"
)

const (
	choicePrompt = "Enter your choice (1-6): "
	memberPrompt = "Enter member ID: "

	msgInvalidMember  = "Invalid member ID. Please enter a valid member ID."
	msgIssueRejected  = "Invalid book ID or book is already borrowed. Please enter a valid book ID."
	msgReturnRejected = "Invalid book ID or book is not borrowed. Please enter a valid book ID."
)

// handleConversation processes input for the open multi-step command
func (s *Session) handleConversation(line string) {
	switch s.state.Action {
	case circulation.ActionRegister:
		s.state.Request.Name = line
		s.execute()
	case circulation.ActionIssue:
		s.handleLoanConversation(line, "Enter book ID to issue: ")
	case circulation.ActionReturn:
		s.handleLoanConversation(line, "Enter book ID to return: ")
	case circulation.ActionListBorrowed, circulation.ActionOutstandingFine:
		if line == "" {
			s.prompt(memberPrompt)
			return
		}
		s.state.Request.MemberID = parseID(line)
		s.execute()
	default:
		s.state.Step = stepDone
	}
}

// handleLoanConversation handles issue and return: member ID first, then book ID
func (s *Session) handleLoanConversation(line, bookPrompt string) {
	switch s.state.Step {
	case 1: // Waiting for member ID
		if line == "" {
			s.prompt(memberPrompt)
			return
		}

		memberID := parseID(line)
		if _, err := s.svc.Member(memberID); err != nil {
			s.println(msgInvalidMember)
			s.state.Step = stepDone
			return
		}

		s.state.Request.MemberID = memberID
		s.state.Step = 2
		s.prompt(bookPrompt)

	case 2: // Waiting for book ID
		if line == "" {
			s.prompt(bookPrompt)
			return
		}

		s.state.Request.BookID = parseID(line)
		s.execute()
	}
}

// execute sends the collected request to the service and renders the outcome
func (s *Session) execute() {
	req := s.state.Request
	s.state.Step = stepDone

	res, err := s.svc.Execute(req)
	if err != nil {
		s.renderError(req, err)
		return
	}

	switch req.Action {
	case circulation.ActionRegister:
		s.println("\nMember created successfully!")
		s.renderMember(res)

	case circulation.ActionIssue:
		s.println("\nBook issued successfully!")
		s.renderBorrowedBy(req.MemberID)

	case circulation.ActionReturn:
		if res.Fine > 0 {
			s.printf("\nBook returned successfully. Fine for overdue: £%d\n", res.Fine)
		} else {
			s.println("\nBook returned successfully. No fine.")
		}
		s.renderBorrowedBy(req.MemberID)

	case circulation.ActionListBorrowed:
		s.renderBorrowed(req.MemberID, res)

	case circulation.ActionOutstandingFine:
		s.printf("\nFine for Member ID %d: £%d\n", req.MemberID, res.Fine)
	}
}

func (s *Session) renderBorrowedBy(memberID int) {
	req := circulation.Request{Action: circulation.ActionListBorrowed, MemberID: memberID}
	res, err := s.svc.Execute(req)
	if err != nil {
		s.renderError(req, err)
		return
	}
	s.renderBorrowed(memberID, res)
}

func (s *Session) renderError(req circulation.Request, err error) {
	switch {
	case req.Action == circulation.ActionIssue &&
		(errors.Is(err, circulation.ErrInvalidID) || errors.Is(err, circulation.ErrBookUnavailable)):
		s.println(msgIssueRejected)
	case req.Action == circulation.ActionReturn &&
		(errors.Is(err, circulation.ErrInvalidID) || errors.Is(err, circulation.ErrNotBorrowed)):
		s.println(msgReturnRejected)
	case errors.Is(err, circulation.ErrInvalidID):
		s.println(msgInvalidMember)
	default:
		s.logger.Error("Operation failed",
			zap.Stringer("action", req.Action),
			zap.Error(err),
		)
		s.printf("Error: %v\n", err)
	}
}

// parseID reads a numeric ID, mapping anything unparsable to 0 which is never a valid ID
func parseID(text string) int {
	id, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return id
}
