package command

import (
	"fmt"
	"strconv"
	"strings"

	"bookrating/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse the book catalogue",
	Long:  `List, search and inspect books, and see what is trending.`,
}

var listBooksCmd = &cobra.Command{
	Use:   "list",
	Short: "List books, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().Books(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to list books: %w", err)
		}
		printBooks(result.Data)
		printPagination(result.Pagination)
		return nil
	},
}

var showBookCmd = &cobra.Command{
	Use:   "show [book-id]",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "book ID")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		book, err := newClient().Book(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		fmt.Println(title(book.Title))
		if book.Subtitle != nil {
			fmt.Println(*book.Subtitle)
		}
		if book.Author != nil {
			fmt.Printf("by %s\n", book.Author.Name)
		}
		fmt.Printf("Rating: %.1f/10 (%d ratings)\n", book.Rating, book.RatingsCount)
		fmt.Printf("Published: %s, %d pages\n", book.PublishedDate, book.NumberOfPages)
		if len(book.Categories) > 0 {
			names := make([]string, 0, len(book.Categories))
			for _, c := range book.Categories {
				names = append(names, c.Name)
			}
			fmt.Printf("Categories: %s\n", strings.Join(names, ", "))
		}
		fmt.Println()
		fmt.Println(book.Description)
		return nil
	},
}

var searchBooksCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search books by title or author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		books, err := newClient().SearchBooks(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(books) == 0 {
			fmt.Println(warn("No books found."))
			return nil
		}
		printBooks(books)
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the most rated books",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		books, err := newClient().Trending(ctx)
		if err != nil {
			return fmt.Errorf("failed to get trending books: %w", err)
		}
		for i, b := range books {
			fmt.Printf("%d. %s %s\n", i+1, title(b.Title), faint(fmt.Sprintf("#%d, %d ratings", b.ID, b.RatingCount)))
		}
		return nil
	},
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Show a few suggested books",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		books, err := newClient().Suggestions(ctx)
		if err != nil {
			return fmt.Errorf("failed to get suggestions: %w", err)
		}
		printBooks(books)
		return nil
	},
}

func init() {
	booksCmd.AddCommand(listBooksCmd, showBookCmd, searchBooksCmd, trendingCmd, suggestionsCmd)
	listBooksCmd.Flags().IntP("page", "p", 1, "Page number")
}

func printBooks(books []dto.BookResponse) {
	for _, b := range books {
		author := ""
		if b.Author != nil {
			author = " by " + b.Author.Name
		}
		fmt.Printf("%s %s%s  %.1f/10\n", faint(fmt.Sprintf("#%-5d", b.ID)), title(b.Title), author, b.Rating)
	}
}

func printPagination(p dto.Pagination) {
	fmt.Println(faint(fmt.Sprintf("page %d of %d, %d total", p.Page, p.TotalPages, p.Total)))
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", what, raw)
	}
	return id, nil
}
