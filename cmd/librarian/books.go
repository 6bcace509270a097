package main

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"librarian/internal/app"
	"librarian/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type bookView struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	PageCount int    `json:"page_count"`
	State     string `json:"state"`
}

func toBookView(b models.Book) bookView {
	return bookView{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Genre:     b.Genre,
		PageCount: b.PageCount,
		State:     b.State.String(),
	}
}

func newBooksCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "books",
		Short: "Import the books file and list the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}

			return withApp(cfg, func(a *app.App) error {
				out := cmd.OutOrStdout()

				if asJSON {
					views := []bookView{}
					for b := range a.Books() {
						views = append(views, toBookView(b))
					}
					return json.NewEncoder(out).Encode(views)
				}

				for b := range a.Books() {
					fmt.Fprintf(out, "Book ID: %d | Name: %s | Author: %s | Genre: %s | Pages: %d | %s\n",
						b.ID, b.Title, b.Author, b.Genre, b.PageCount, b.State)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalogue as a JSON array")
	return cmd
}
