package auth

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/config"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/spf13/cobra"
)

// InitAuth registers login and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd(), logoutCmd())
}

// loginCmd logs in and stores the JWT for subsequent commands.
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the inventory API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("username is required")
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			var resp struct {
				Token string      `json:"token"`
				User  models.User `json:"user"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.New().Do(cmd.Context(), http.MethodPost, "/auth/login", payload, &resp); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if resp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Printf("Logged in as %s (%s). Token stored in %s\n", resp.User.Username, resp.User.Role, config.TokenPath())
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to authenticate as")
	cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("HCI_INVENTORY_PASSWORD"), "Password (prompted when empty)")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
