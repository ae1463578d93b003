package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/spf13/cobra"
)

// NewLocationsCommand creates the locations command group.
func NewLocationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Work with shelving locations",
		Long:  "List the tenant's shelving locations and manage the derived lookup cache",
	}

	cmd.AddCommand(newLocationsListCommand())
	cmd.AddCommand(newLocationsInvalidateCommand())

	return cmd
}

func newLocationsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shelving locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx, "")
			if err != nil {
				return err
			}

			byID, err := client.Locations().All(ctx)
			if err != nil {
				return err
			}

			locations := make([]okapi.Location, 0, len(byID))
			for _, location := range byID {
				locations = append(locations, location)
			}

			sort.Slice(locations, func(i, j int) bool {
				return locations[i].Code < locations[j].Code
			})

			done, err := renderStructured(locations)
			if done || err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Code", "Name", "Display Name", "Active")

			for _, location := range locations {
				_ = table.Append(location.Code, location.Name, location.DiscoveryDisplayName, fmt.Sprintf("%t", location.IsActive))
			}

			return table.Render()
		},
	}
}

func newLocationsInvalidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate",
		Short: "Drop the cached location lookup maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx, "")
			if err != nil {
				return err
			}

			err = client.Locations().Invalidate(ctx)
			if err != nil {
				return err
			}

			fmt.Println("Location lookup cache invalidated")

			return nil
		},
	}
}
