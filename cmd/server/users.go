package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/shinehub-server/internal/store"
	"github.com/vovakirdan/shinehub-server/internal/store/sqlite"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect registered accounts",
}

// usersListCmd prints every account straight from the database.
var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		users, err := st.ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		renderUsers(users)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	rootCmd.AddCommand(usersCmd)
}

func renderUsers(users []*store.User) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Username", "Name", "Class", "Role", "Banned", "Last login"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, u := range users {
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format("2006-01-02 15:04")
		}
		table.Append([]string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Name,
			u.Class + "-" + u.Section,
			string(u.Role),
			strconv.FormatBool(u.IsBanned),
			lastLogin,
		})
	}

	table.Render()
	fmt.Printf("%d users\n", len(users))
}
