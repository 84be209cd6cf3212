package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a user's quiz history",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := resolveUser(cmd, d)
		if err != nil {
			return err
		}
		if !yes {
			fmt.Printf("This deletes every quiz recorded for %s (%s).\n", u.Name, u.Email)
			fmt.Println("Run again with --yes to confirm.")
			return nil
		}

		n, err := d.store.History().DeleteSessions(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		fmt.Printf("Deleted %d quizzes for %s.\n", n, u.Email)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("email", "", "Account email (default: signed-in user)")
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
