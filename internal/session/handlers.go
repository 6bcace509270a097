package session

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"librarian/internal/circulation"
)

// handleLine processes a single input line and reports whether the operator chose to exit
func (s *Session) handleLine(line string) (exit bool) {
	// Recover from panics so one bad command does not end the session
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Recovered from panic while handling input", zap.Any("panic", r))
			s.println("An error occurred while processing your request. Please try again.")
			s.state = nil
			s.showMenu()
			exit = false
		}
	}()

	line = strings.TrimSpace(line)

	if s.state != nil {
		s.handleConversation(line)

		// Clean up completed conversations
		if s.state.Step == stepDone {
			s.state = nil
			s.showMenu()
		}
		return false
	}

	return s.handleChoice(line)
}

// handleChoice dispatches a menu selection
func (s *Session) handleChoice(line string) bool {
	if line == "" {
		s.prompt(choicePrompt)
		return false
	}

	choice, err := strconv.Atoi(line)
	if err != nil {
		choice = 0
	}

	switch choice {
	case choiceRegister:
		s.startConversation(circulation.ActionRegister, "Enter member name: ")
	case choiceIssue:
		s.startConversation(circulation.ActionIssue, memberPrompt)
	case choiceReturn:
		s.startConversation(circulation.ActionReturn, memberPrompt)
	case choiceListBorrowed:
		s.startConversation(circulation.ActionListBorrowed, memberPrompt)
	case choiceFine:
		s.startConversation(circulation.ActionOutstandingFine, memberPrompt)
	case choiceExit:
		s.println("Exiting the Library Management System. Goodbye!")
		return true
	default:
		s.logger.Debug("Invalid menu choice", zap.String("input", line))
		s.println("Invalid choice. Please enter a number between 1 and 6.")
		s.showMenu()
	}

	return false
}

// startConversation opens a multi-step command and asks for its first input
func (s *Session) startConversation(action circulation.Action, prompt string) {
	s.state = &ConversationState{
		Action:  action,
		Step:    1,
		Request: circulation.Request{Action: action},
	}
	s.prompt(prompt)
}
