package inventory

import (
	"fmt"
	"net/http"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/spf13/cobra"
)

// InitInventory registers the admin upload and audit commands.
func InitInventory(rootCmd *cobra.Command) {
	rootCmd.AddCommand(uploadCmd(), auditCmd())
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file.xlsx|file.csv]",
		Short: "Upload an inventory spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var out struct {
				Message string `json:"message"`
			}
			if err := c.Upload(cmd.Context(), "/inventory/upload", args[0], &out); err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}
}

func auditCmd() *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var entries []models.AuditEntry
			if err := c.Do(cmd.Context(), http.MethodGet, fmt.Sprintf("/audit?limit=%d", limit), nil, &entries); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(entries)
			}
			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor, string(e.Details)})
			}
			output.RenderTable([]string{"Time", "Action", "Actor", "Details"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "number of entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
