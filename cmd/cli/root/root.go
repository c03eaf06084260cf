package root

import (
	"github.com/crucial707/hci-inventory/cmd/cli/auth"
	"github.com/crucial707/hci-inventory/cmd/cli/inventory"
	"github.com/crucial707/hci-inventory/cmd/cli/items"
	"github.com/crucial707/hci-inventory/cmd/cli/requests"
	"github.com/crucial707/hci-inventory/cmd/cli/users"
	"github.com/spf13/cobra"
)

// NewRoot builds the hci-inv command tree.
func NewRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hci-inv",
		Short:         "HCI Inventory CLI",
		Long:          "Command line interface for the HCI inventory request and approval API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	auth.InitAuth(rootCmd)
	items.InitItems(rootCmd)
	requests.InitRequests(rootCmd)
	inventory.InitInventory(rootCmd)
	users.InitUsers(rootCmd)

	return rootCmd
}
