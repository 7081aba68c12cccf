package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"bulkcat/internal/clix"
	"bulkcat/internal/services"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	moveAs     string
	moveTarget int64
)

var moveCmd = &cobra.Command{
	Use:   "move --as <login> --target <category_id> <post_id>...",
	Short: "Move posts to a single category",
	Long: `Replaces the categories of every listed post with the target category,
acting as the given user. Post ids may be separated by spaces or commas.
Posts that fail are reported individually and do not stop the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		postIDs, err := clix.ParseIDs(args)
		if err != nil {
			return err
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		actor, err := appInstance.UserService.GetUserByLogin(cmd.Context(), moveAs)
		if err != nil {
			return fmt.Errorf("unknown user %q: %w", moveAs, err)
		}

		result, err := appInstance.BulkMoveService.Execute(cmd.Context(), services.BulkMoveRequest{
			PostIDs:          postIDs,
			TargetCategoryID: moveTarget,
		}, actor)
		if err != nil {
			var moveErr *services.MoveError
			if errors.As(err, &moveErr) {
				return errors.New(moveErr.Message)
			}
			return err
		}

		switch {
		case result.Failed == 0:
			fmt.Println(color.GreenString(result.Message()))
		case result.Success():
			fmt.Println(color.YellowString(result.Message()))
		default:
			fmt.Println(color.RedString(result.Message()))
		}
		fmt.Printf("Target category: %s (ID: %d)\n", result.Target.Name, result.Target.ID)

		if len(result.FailedItems) > 0 {
			fmt.Println("\nFailed posts:")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Reason"})
			table.SetBorder(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, f := range result.FailedItems {
				table.Append([]string{strconv.FormatInt(f.ID, 10), f.Title, f.Reason})
			}
			table.Render()
		}

		if !result.Success() {
			return errors.New(services.CodeMoveFailed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)

	moveCmd.Flags().StringVar(&moveAs, "as", "", "Login of the user performing the move (required)")
	moveCmd.Flags().Int64VarP(&moveTarget, "target", "t", 0, "Target category id (required)")
	moveCmd.MarkFlagRequired("as")
	moveCmd.MarkFlagRequired("target")
}
