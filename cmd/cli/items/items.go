package items

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Items
// ==========================
func InitItems(rootCmd *cobra.Command) {
	rootCmd.AddCommand(listItemsCmd())
}

// ==========================
// LIST
// ==========================
func listItemsCmd() *cobra.Command {
	var search string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List items in stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			if search != "" {
				q.Set("q", search)
			}
			var items []models.InventoryItem
			if err := c.Do(cmd.Context(), http.MethodGet, "/items?"+q.Encode(), nil, &items); err != nil {
				return err
			}

			if asJSON {
				return output.PrintJSON(items)
			}
			rows := make([][]interface{}, 0, len(items))
			for _, i := range items {
				rows = append(rows, []interface{}{i.ID, i.Manufacturer, i.Model, i.Description, i.Qty, i.Location, i.Site})
			}
			output.RenderTable([]string{"ID", "Manufacturer", "Model", "Description", "Qty", "Location", "Site"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "search model, manufacturer or description")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of items")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}
