package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List local accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		users, err := d.store.Users().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		fmt.Printf("%-36s  %-28s  %-20s  %s\n", "ID", "Email", "Name", "Last login")
		fmt.Println(strings.Repeat("─", 104))
		for _, u := range users {
			last := "never"
			if !u.LastLoginAt.IsZero() {
				last = u.LastLoginAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("%-36s  %-28s  %-20s  %s\n", u.ID, u.Email, u.Name, last)
		}
		return nil
	},
}
