package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "Inspect categories",
}

var listCategoriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories with their post counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		cats, err := appInstance.CategoryService.ListCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(cats) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Slug", "Posts"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, c := range cats {
			table.Append([]string{
				strconv.FormatInt(c.ID, 10),
				c.Name,
				c.Slug,
				strconv.Itoa(c.Count),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(listCategoriesCmd)
}
