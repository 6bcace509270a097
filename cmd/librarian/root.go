package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"librarian/internal/app"
	"librarian/internal/config"
)

type rootFlags struct {
	configPath string
	booksFile  string
	logLevel   string
	prompts    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "librarian",
		Short:         "In-memory library catalogue with member circulation",
		Long:          "Imports the books file, then runs an interactive menu to register members, issue and return books and compute fines.",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}

			return withApp(cfg, func(a *app.App) error {
				return a.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file (env "+config.EnvConfig+")")
	pf.StringVar(&flags.booksFile, "books", "", "books file to import at startup (env "+config.EnvBooksFile+")")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error (env "+config.EnvLogLevel+")")
	pf.StringVar(&flags.prompts, "prompts", "", "menu and prompts: auto, always or never (env "+config.EnvPrompts+")")

	cmd.AddCommand(newImportCmd(flags), newBooksCmd(flags))
	return cmd
}

// load reads the configuration and applies the flags the user set explicitly
func (f *rootFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("books") {
		cfg.BooksFile = f.booksFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("prompts") {
		cfg.Prompts = config.PromptMode(f.prompts)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withApp builds the logger and the application, runs fn and shuts down
func withApp(cfg *config.Config, fn func(a *app.App) error) error {
	logger, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to start", zap.Error(err))
		return err
	}
	defer application.Shutdown()

	return fn(application)
}
