package session

import (
	"fmt"
	"time"

	"librarian/internal/circulation"
)

const menu = `
Library Management System Menu:
1. Add a member
2. Issue a book to a member
3. Return a book
4. Display all books borrowed by a member
5. Calculate fine for a member
6. Exit
`

// showMenu prints the menu and the choice prompt
func (s *Session) showMenu() {
	s.prompt(menu)
	s.prompt(choicePrompt)
}

func (s *Session) renderMember(res circulation.Result) {
	s.println("\nMember details:")
	s.printf("Member ID: %d | Name: %s\n", res.Member.ID, res.Member.Name)
}

func (s *Session) renderBorrowed(memberID int, res circulation.Result) {
	s.printf("\nBooks borrowed by Member ID %d:\n", memberID)
	for _, b := range res.Borrowed {
		s.printf("Book ID: %d | Name: %s | Due Date: %s\n", b.ID, b.Title, b.DueAt.Format(time.ANSIC))
	}
}

// prompt writes text only when prompts are enabled
func (s *Session) prompt(text string) {
	if s.prompts {
		fmt.Fprint(s.out, text)
	}
}

func (s *Session) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
