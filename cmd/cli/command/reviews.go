package command

import (
	"fmt"
	"strconv"
	"strings"

	"bookrating/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Review management commands",
	Long:  `Read the reviews of a book, and create, edit, like or delete your own reviews. Ratings use a 1-10 scale.`,
}

var bookReviewsCmd = &cobra.Command{
	Use:   "book [book-id]",
	Short: "List the reviews of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := parseID(args[0], "book ID")
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().BookReviews(ctx, bookID, page)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}

		fmt.Printf("%d written reviews\n\n", result.Reviews)
		for _, item := range result.Ratings {
			liked := ""
			if item.IsLiked {
				liked = success(" ♥")
			}
			fmt.Printf("%s %s  %d/10  %d likes%s\n", faint(fmt.Sprintf("#%d", item.Data.ID)), title(item.User.Name), item.Data.Rating, item.Data.Likes, liked)
			if item.Data.Comment != nil {
				fmt.Printf("    %s\n", *item.Data.Comment)
			}
		}
		printPagination(result.Pagination)
		return nil
	},
}

var myReviewsCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().MyReviews(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}
		for _, r := range result.Data {
			printReview(r)
		}
		printPagination(result.Pagination)
		return nil
	},
}

var createReviewCmd = &cobra.Command{
	Use:   "create [book-id] [rating]",
	Short: "Review a book (rating 1-10)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := parseID(args[0], "book ID")
		if err != nil {
			return err
		}
		rating, err := parseRating(args[1])
		if err != nil {
			return err
		}

		req := dto.CreateReviewDTO{BookID: bookID, Rating: rating, Comment: commentFlag(cmd)}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().CreateReview(ctx, req)
		if err != nil {
			return describeAPIError(fmt.Errorf("failed to create review: %w", err))
		}
		fmt.Println(success("✓ " + result.Message))
		printReview(result.Review)
		return nil
	},
}

var updateReviewCmd = &cobra.Command{
	Use:   "update [review-id] [rating]",
	Short: "Edit one of your reviews",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "review ID")
		if err != nil {
			return err
		}
		rating, err := parseRating(args[1])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().UpdateReview(ctx, id, dto.UpdateReviewDTO{Rating: rating, Comment: commentFlag(cmd)})
		if err != nil {
			return describeAPIError(fmt.Errorf("failed to update review: %w", err))
		}
		fmt.Println(success("✓ " + result.Message))
		printReview(result.Review)
		return nil
	},
}

var deleteReviewCmd = &cobra.Command{
	Use:   "delete [review-id]",
	Short: "Delete one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "review ID")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := newClient().DeleteReview(ctx, id); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		fmt.Println(success("✓ Review deleted successfully"))
		return nil
	},
}

var likeReviewCmd = &cobra.Command{
	Use:   "like [review-id]",
	Short: "Like or unlike a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "review ID")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := newClient().LikeReview(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to like review: %w", err)
		}
		fmt.Printf("%s (%d likes)\n", success("✓ "+result.Message), result.Likes)
		return nil
	},
}

func init() {
	reviewsCmd.AddCommand(bookReviewsCmd, myReviewsCmd, createReviewCmd, updateReviewCmd, deleteReviewCmd, likeReviewCmd)

	bookReviewsCmd.Flags().IntP("page", "p", 1, "Page number")
	myReviewsCmd.Flags().IntP("page", "p", 1, "Page number")
	createReviewCmd.Flags().StringP("comment", "c", "", "Review text (at least 10 characters)")
	updateReviewCmd.Flags().StringP("comment", "c", "", "Review text (at least 10 characters)")
}

func parseRating(raw string) (int, error) {
	rating, err := strconv.Atoi(raw)
	if err != nil || rating < 1 || rating > 10 {
		return 0, fmt.Errorf("rating must be a whole number between 1 and 10, got %q", raw)
	}
	return rating, nil
}

// commentFlag returns nil when no comment was given so the review is stored without text
func commentFlag(cmd *cobra.Command) *string {
	comment, _ := cmd.Flags().GetString("comment")
	if strings.TrimSpace(comment) == "" {
		return nil
	}
	return &comment
}

func printReview(r dto.ReviewResponse) {
	book := fmt.Sprintf("book #%d", r.BookID)
	if r.Book != nil {
		book = r.Book.Title
	}
	fmt.Printf("%s %s  %d/10  %d likes  %s\n", faint(fmt.Sprintf("#%d", r.ID)), title(book), r.Rating, r.Likes, faint(r.UpdatedAt.Format("2006-01-02 15:04")))
	if r.Comment != nil {
		fmt.Printf("    %s\n", *r.Comment)
	}
}
