package requests

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/spf13/cobra"
)

// InitRequests registers the requester and approver commands.
func InitRequests(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		submitCmd(),
		mineCmd(),
		pendingCmd(),
		decideCmd("approve", models.StatusApproved),
		decideCmd("reject", models.StatusRejected),
		historyCmd(),
	)
}

func submitCmd() *cobra.Command {
	var itemID, qty int
	var purpose, approver string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a quantity of an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			payload := map[string]interface{}{
				"item_id":        itemID,
				"qty":            qty,
				"purpose":        purpose,
				"approver_email": approver,
			}
			var req models.AssetRequest
			if err := c.Do(cmd.Context(), http.MethodPost, "/requests", payload, &req); err != nil {
				return err
			}
			fmt.Printf("Request %d submitted (%s). %s has been notified.\n", req.ID, req.Status, approver)
			return nil
		},
	}

	cmd.Flags().IntVar(&itemID, "item", 0, "item id")
	cmd.Flags().IntVar(&qty, "qty", 1, "quantity needed")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose / justification")
	cmd.Flags().StringVar(&approver, "approver", "", "approver email")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("approver")

	return cmd
}

func mineCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List your requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := fetchSummaries(cmd, "/requests/mine")
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, r := range list {
				rows = append(rows, []interface{}{r.ID, r.Manufacturer + " " + r.Model, r.QtyRequested, r.Status, r.CreatedAt.Format("2006-01-02 15:04")})
			}
			output.RenderTable([]string{"ID", "Item", "Qty", "Status", "Date"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func pendingCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List pending requests (approvers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := fetchSummaries(cmd, "/requests/pending")
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, r := range list {
				approvable := "yes"
				if !r.CanApprove {
					approvable = "no (insufficient stock)"
				}
				rows = append(rows, []interface{}{r.ID, r.Requester, r.Manufacturer + " " + r.Model, r.QtyRequested, r.CurrentStock, r.Purpose, approvable})
			}
			output.RenderTable([]string{"ID", "Requester", "Item", "Qty", "Stock", "Purpose", "Can Approve"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func fetchSummaries(cmd *cobra.Command, path string) ([]models.RequestSummary, error) {
	c, err := client.Authenticated()
	if err != nil {
		return nil, err
	}
	var list []models.RequestSummary
	if err := c.Do(cmd.Context(), http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func decideCmd(verb, status string) *cobra.Command {
	var comments string
	cmd := &cobra.Command{
		Use:   verb + " [request-id]",
		Short: fmt.Sprintf("Mark a pending request %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var out struct {
				Request   models.AssetRequest `json:"request"`
				Remaining int                 `json:"remaining"`
			}
			path := fmt.Sprintf("/requests/%d/%s", id, verb)
			if err := c.Do(cmd.Context(), http.MethodPost, path, map[string]string{"comments": comments}, &out); err != nil {
				return err
			}
			fmt.Printf("Request %d %s. Remaining stock: %d\n", out.Request.ID, out.Request.Status, out.Remaining)
			return nil
		},
	}
	cmd.Flags().StringVar(&comments, "comments", "", "comments recorded with the decision")
	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your recent decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var logs []models.ApprovalLog
			if err := c.Do(cmd.Context(), http.MethodGet, "/approvals", nil, &logs); err != nil {
				return err
			}
			rows := make([][]interface{}, 0, len(logs))
			for _, l := range logs {
				rows = append(rows, []interface{}{l.RequestID, l.Decision, l.Comments, l.Timestamp.Format("2006-01-02 15:04")})
			}
			output.RenderTable([]string{"Request", "Decision", "Comments", "Date"}, rows)
			return nil
		},
	}
}
