package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewModulesCommand creates the modules command group.
func NewModulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Inspect deployed gateway modules",
	}

	cmd.AddCommand(newModulesVersionCommand())

	return cmd
}

func newModulesVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version MODULE",
		Short: "Resolve the deployed version of a module",
		Long:  "Resolve the deployed version of the module with the given prefix, e.g. mod-circulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx, "")
			if err != nil {
				return err
			}

			version, err := client.Modules().Version(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s %s\n", args[0], version)

			return nil
		},
	}
}
