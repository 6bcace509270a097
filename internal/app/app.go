package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"librarian/internal/circulation"
	"librarian/internal/config"
	"librarian/internal/importer"
	"librarian/internal/models"
	"librarian/internal/session"
	"librarian/internal/storage/mem"
)

// App represents the application
type App struct {
	config  *config.Config
	logger  *zap.Logger
	books   *mem.Catalogue
	members *mem.Registry
	service *circulation.Service
	summary importer.Summary
}

// NewLogger builds the zap logger described by cfg.
// Production config writes JSON to stderr; development config writes console lines to stderr.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.Level())
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// New creates the stores, imports the books file and builds the circulation service.
// A books file that cannot be opened leaves the catalogue empty.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger}

	logger.Info("Starting library management system", zap.String("books_file", cfg.BooksFile))

	if err := app.initStorage(); err != nil {
		return nil, err
	}

	app.importBooks()

	app.service = circulation.NewService(app.books, app.members, circulation.SystemClock{}, logger)
	return app, nil
}

// initStorage creates the in-memory catalogue and member registry
func (a *App) initStorage() error {
	books, err := mem.NewCatalogue()
	if err != nil {
		return fmt.Errorf("failed to create catalogue: %w", err)
	}

	members, err := mem.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to create member registry: %w", err)
	}

	a.books = books
	a.members = members
	return nil
}

func (a *App) importBooks() {
	summary, err := importer.ImportFile(a.books, a.config.BooksFile, a.logger)
	if err != nil {
		a.logger.Error("Failed to import books, starting with an empty catalogue",
			zap.String("books_file", a.config.BooksFile),
			zap.Error(err),
		)
		return
	}
	a.summary = summary
}

// ImportSummary returns the outcome of the startup import
func (a *App) ImportSummary() importer.Summary {
	return a.summary
}

// Books yields the catalogue in import order
func (a *App) Books() iter.Seq[models.Book] {
	return a.books.All()
}

// Service returns the circulation service
func (a *App) Service() *circulation.Service {
	return a.service
}

// Run runs an operator session over in and out until exit, end of input or SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prompts := a.config.PromptsEnabled(session.IsTerminal(in))
	s := session.New(a.service, in, out, prompts, a.logger)

	err := s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		a.logger.Info("Shutting down...")
		return nil
	}
	return err
}

// Shutdown flushes buffered log entries
func (a *App) Shutdown() {
	a.logger.Info("Shutdown complete")
	// stderr sync returns EINVAL on terminals
	_ = a.logger.Sync()
}
