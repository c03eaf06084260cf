package users

import (
	"fmt"
	"net/http"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin)",
	}
	usersCmd.AddCommand(listUsersCmd(), createUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var page struct {
				Items []models.User `json:"items"`
				Total int           `json:"total"`
			}
			if err := c.Do(cmd.Context(), http.MethodGet, "/users", nil, &page); err != nil {
				return err
			}
			rows := make([][]interface{}, 0, len(page.Items))
			for _, u := range page.Items {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Email, u.Role})
			}
			output.RenderTable([]string{"ID", "Username", "Email", "Role"}, rows)
			return nil
		},
	}
}

// ==========================
// Create User
// ==========================
func createUserCmd() *cobra.Command {
	var username, password, email, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			payload := map[string]string{"username": username, "password": password, "email": email, "role": role}
			var u models.User
			if err := c.Do(cmd.Context(), http.MethodPost, "/users", payload, &u); err != nil {
				return err
			}
			fmt.Printf("Created user %s (id %d, role %s)\n", u.Username, u.ID, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&email, "email", "", "email for notifications")
	cmd.Flags().StringVar(&role, "role", models.RoleRequester, "requester, approver or admin")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}
