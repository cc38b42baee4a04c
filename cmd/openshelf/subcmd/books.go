package subcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf/internal/catalog/forms"
	"github.com/openshelf/openshelf/internal/catalog/model"
)

func init() {
	booksCmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and grow the catalog",
	}
	booksCmd.AddCommand(NewBooksListCommand())
	booksCmd.AddCommand(NewBooksAddCommand())
	RootCmd.AddCommand(booksCmd)
}

type BooksListCommand struct {
	Page int
}

func NewBooksListCommand() *cobra.Command {
	listCmd := &BooksListCommand{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog books for a page",
		RunE:  listCmd.run,
	}

	cmd.Flags().IntVarP(&listCmd.Page, "page", "p", 1, "page to fetch")

	return cmd
}

func (l *BooksListCommand) run(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.Timeout())
	defer cancel()

	if err := app.books.GetAll(ctx, l.Page); err != nil {
		return err
	}

	meta := app.books.Meta()
	for _, book := range app.books.Snapshot() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-40s %-25s qty %d\n", book.ID, book.Title, book.Author, book.Quantity)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d books)\n", meta.CurrentPage, meta.LastPage, meta.Total)
	return nil
}

type BooksAddCommand struct {
	Title    string
	Author   string
	Quantity string
	Cover    string
	ISBN     string
}

func NewBooksAddCommand() *cobra.Command {
	addCmd := &BooksAddCommand{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		RunE:  addCmd.run,
	}

	cmd.Flags().StringVarP(&addCmd.Title, "title", "t", "", "book title")
	cmd.Flags().StringVarP(&addCmd.Author, "author", "a", "", "book author")
	cmd.Flags().StringVarP(&addCmd.Quantity, "quantity", "q", "1", "copies on the shelf")
	cmd.Flags().StringVar(&addCmd.Cover, "cover", "", "path to a cover image")
	cmd.Flags().StringVar(&addCmd.ISBN, "isbn", "", "look up title and author by ISBN before adding")
	cmd.MarkFlagRequired("cover")

	return cmd
}

func (a *BooksAddCommand) run(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.Timeout())
	defer cancel()

	pipeline := forms.New(app.books, func() {
		logrus.Debug("book form closed")
	}, app.logger)
	defer pipeline.Close()

	if a.ISBN != "" {
		meta, err := app.metadata.Fetch(ctx, a.ISBN)
		if err != nil {
			logrus.WithError(err).Warn("metadata lookup failed")
		} else {
			pipeline.Prefill(meta.Title, meta.Author())
		}
	}

	if a.Title != "" {
		pipeline.HandleChange(model.FieldTitle, a.Title)
	}
	if a.Author != "" {
		pipeline.HandleChange(model.FieldAuthor, a.Author)
	}
	pipeline.HandleChange(model.FieldQuantity, a.Quantity)

	cover, err := os.Open(a.Cover)
	if err != nil {
		return err
	}
	defer cover.Close()
	if err := pipeline.HandleCover(filepath.Base(a.Cover), cover); err != nil {
		return err
	}

	if errs := pipeline.Errors(); len(errs) > 0 {
		return errors.New(formatFieldErrors(errs))
	}

	title := pipeline.Draft().Title
	if err := pipeline.Submit(ctx); err != nil {
		return err
	}

	logrus.Infof("added %q (%d books in catalog)", title, app.books.Meta().Total)
	return nil
}

func formatFieldErrors(errs model.FieldErrors) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := "invalid book"
	for _, field := range fields {
		out += "\n  " + field + ": " + errs[field]
	}
	return out
}
