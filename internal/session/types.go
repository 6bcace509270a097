package session

import (
	"io"

	"go.uber.org/zap"

	"librarian/internal/circulation"
)

// Session is one operator conversation with the circulation service over a line console
type Session struct {
	svc     *circulation.Service
	in      io.Reader
	out     io.Writer
	prompts bool
	state   *ConversationState
	logger  *zap.Logger
	id      string
}

// ConversationState tracks the state of a multi-step menu command
type ConversationState struct {
	Action  circulation.Action
	Step    int
	Request circulation.Request
}

// stepDone marks a finished conversation
const stepDone = -1

// Menu choices
const (
	choiceRegister = iota + 1
	choiceIssue
	choiceReturn
	choiceListBorrowed
	choiceFine
	choiceExit
)
