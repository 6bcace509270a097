package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librarian/internal/app"
	"librarian/internal/importer"
	"librarian/internal/storage/mem"
)

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Check a books file and report every rejected line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}

			logger, err := app.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			books, err := mem.NewCatalogue()
			if err != nil {
				return err
			}

			summary, err := importer.ImportFile(books, args[0], logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range summary.Rejected {
				fmt.Fprintf(out, "rejected: %v\n", e)
			}
			fmt.Fprintf(out, "%s: %d loaded, %d rejected\n", args[0], summary.Loaded, len(summary.Rejected))
			return nil
		},
	}
}
