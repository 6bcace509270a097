package session

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"

	"librarian/internal/circulation"
)

// New creates a session reading operator input from in and writing the conversation to out.
// Menu and input prompts are written only when prompts is set.
func New(svc *circulation.Service, in io.Reader, out io.Writer, prompts bool, logger *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		svc:     svc,
		in:      in,
		out:     out,
		prompts: prompts,
		logger:  logger.With(zap.String("session_id", id)),
		id:      id,
	}
}

// ID returns the session identifier attached to every log line of the session
func (s *Session) ID() string {
	return s.id
}

// IsTerminal reports whether r is an interactive terminal
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run shows the menu and handles input lines until the operator exits,
// the input ends or ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("Session started", zap.Bool("prompts", s.prompts))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := s.readLines(ctx)
	s.showMenu()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session cancelled")
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.logger.Info("Input closed, ending session")
				return nil
			}
			if s.handleLine(line) {
				s.logger.Info("Session ended by operator")
				return nil
			}
		}
	}
}

// readLines feeds input lines to the returned channel and closes it at end of input
func (s *Session) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Warn("Failed to read input", zap.Error(err))
		}
	}()

	return lines
}
