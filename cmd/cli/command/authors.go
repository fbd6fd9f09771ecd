package command

import (
	"fmt"
	"strings"

	"bookrating/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Browse and follow authors",
}

var listAuthorsCmd = &cobra.Command{
	Use:   "list",
	Short: "List authors",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().Authors(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to list authors: %w", err)
		}
		printAuthors(result.Data)
		printPagination(result.Pagination)
		return nil
	},
}

var searchAuthorsCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search authors by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		authors, err := newClient().SearchAuthors(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(authors) == 0 {
			fmt.Println(warn("No authors found."))
			return nil
		}
		printAuthors(authors)
		return nil
	},
}

var showAuthorCmd = &cobra.Command{
	Use:   "show [author-id]",
	Short: "Show an author with their books and quotes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "author ID")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		author, err := newClient().Author(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get author: %w", err)
		}
		fmt.Println(title(author.Name))
		if author.Bio != nil {
			fmt.Println(*author.Bio)
		}
		fmt.Println()
		for _, b := range author.Books {
			fmt.Printf("  %s %s  %.1f/10\n", faint(fmt.Sprintf("#%-5d", b.ID)), b.Title, b.Rating)
		}
		for _, q := range author.Quotes {
			fmt.Printf("  %s\n", faint("“"+q.Text+"”"))
		}
		return nil
	},
}

var followAuthorCmd = &cobra.Command{
	Use:   "follow [author-id]",
	Short: "Follow or unfollow an author",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "author ID")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().FollowAuthor(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to follow author: %w", err)
		}
		fmt.Println(success("✓ " + result.Message))
		return nil
	},
}

// followCmd toggles following another reader
var followCmd = &cobra.Command{
	Use:   "follow [user-id]",
	Short: "Follow or unfollow a reader",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := newClient()
		result, err := c.FollowUser(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to follow user: %w", err)
		}
		fmt.Println(success("✓ " + result.Message))

		profile, err := c.Profile(ctx, args[0])
		if err == nil {
			fmt.Printf("%s has %d followers and %d reviews\n", title(profile.Name), profile.Followers, profile.Reviews)
		}
		return nil
	},
}

func init() {
	authorsCmd.AddCommand(listAuthorsCmd, searchAuthorsCmd, showAuthorCmd, followAuthorCmd)
	listAuthorsCmd.Flags().IntP("page", "p", 1, "Page number")
}

func printAuthors(authors []dto.AuthorResponse) {
	for _, a := range authors {
		fmt.Printf("%s %s %s\n", faint(fmt.Sprintf("#%-5d", a.ID)), title(a.Name), faint(fmt.Sprintf("(%d books)", len(a.Books))))
	}
}
