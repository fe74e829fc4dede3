package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List past interview sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		owner, _ := cmd.Flags().GetString("owner")
		if owner == "" {
			owner = os.Getenv("USER")
		}

		store, closeStore, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer closeStore() //nolint:errcheck

		sessions, err := store.ListByOwner(cmd.Context(), owner, limit, offset)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-20s  %-9s  %-8s  %s\n",
			"ID", "Type", "Role", "Status", "Duration", "Answered")
		for _, s := range sessions {
			fmt.Printf("%-36s  %-16s  %-20s  %-9s  %-8s  %d/%d\n",
				s.ID, s.Type, s.Role, s.Status, s.Duration, len(s.Answers), len(s.Questions))
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "maximum sessions to list")
	sessionsCmd.Flags().Int("offset", 0, "sessions to skip")
	sessionsCmd.Flags().String("owner", "", "owner to list sessions for (default current user)")
}
