package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"bulkcat/internal/clix"
	"bulkcat/internal/services"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var postsSearch string

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Inspect published posts",
}

var listPostsCmd = &cobra.Command{
	Use:   "list",
	Short: "List published posts with their categories",
	Long: `Shows one page of published posts, newest first. Filter by a category to
include (--cat), a category to exclude (--exclude-cat) and title search terms
(--search, every term must appear in the title).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := clix.ParseCategoryFilter(cmd.Flags())
		if err != nil {
			return err
		}
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		page, err := appInstance.PostService.ListPosts(cmd.Context(), services.ListPostsParams{
			IncludeCategory: filter.Include,
			ExcludeCategory: filter.Exclude,
			Search:          postsSearch,
			PerPage:         pagination.PerPage,
			Page:            pagination.Page,
		})
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}

		for _, w := range page.Warnings {
			fmt.Println(color.YellowString("Warning: ") + w)
		}
		if len(page.Items) == 0 {
			fmt.Println("No posts found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Title", "Author", "Categories", "Published"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, item := range page.Items {
			names := make([]string, len(item.Categories))
			for i, c := range item.Categories {
				names[i] = c.Name
			}
			title := item.Post.Title
			if title == "" {
				title = "(no title)"
			}
			table.Append([]string{
				strconv.FormatInt(item.Post.ID, 10),
				title,
				item.Post.AuthorName,
				strings.Join(names, ", "),
				item.Post.PublishedAt.Format("2006-01-02 15:04"),
			})
		}
		table.Render()

		fmt.Printf("Showing %d–%d of %d (page %d of %d, %d per page)\n",
			page.From, page.To, page.Total, page.Page, page.TotalPages, page.PerPage)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(listPostsCmd)

	listPostsCmd.Flags().Int64("cat", 0, "Only posts in this category id")
	listPostsCmd.Flags().Int64("exclude-cat", 0, "Skip posts in this category id")
	listPostsCmd.Flags().StringVarP(&postsSearch, "search", "s", "", "Title search terms")
	listPostsCmd.Flags().Int("per-page", services.DefaultPerPage, "Posts per page (20, 30, 50 or 100)")
	listPostsCmd.Flags().IntP("page", "p", 1, "Page number")
}
