package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Work with user records",
		Long:  "Look up and search user records for the current tenant",
	}

	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersSearchCommand())

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	var barcode bool

	cmd := &cobra.Command{
		Use:   "get USERNAME",
		Short: "Get a single user record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx, "")
			if err != nil {
				return err
			}

			var user *okapi.User
			if barcode {
				user, err = client.Users().GetByBarcode(ctx, args[0])
			} else {
				user, err = client.Users().GetByUsername(ctx, args[0])
			}

			if err != nil {
				return err
			}

			done, err := renderStructured(user)
			if done || err != nil {
				return err
			}

			renderUserTable([]okapi.User{*user})

			return nil
		},
	}

	cmd.Flags().BoolVar(&barcode, "barcode", false, "look up by barcode instead of username")

	return cmd
}

func newUsersSearchCommand() *cobra.Command {
	var (
		cql   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search user records with a CQL filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx, "")
			if err != nil {
				return err
			}

			query := okapi.NewQuery().WithCQL(cql).WithSortBy("username")

			cursor := client.Users().Search(ctx, query)

			var users []okapi.User

			for cursor.HasNext() && len(users) < limit {
				user, err := cursor.Next()
				if err != nil {
					return err
				}

				users = append(users, user)
			}

			done, err := renderStructured(users)
			if done || err != nil {
				return err
			}

			renderUserTable(users)
			fmt.Printf("\n%d of ~%d matching records shown\n", len(users), cursor.TotalEstimate())

			return nil
		},
	}

	cmd.Flags().StringVarP(&cql, "query", "q", "cql.allRecords=1", "CQL filter expression")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum records to display")

	return cmd
}

func renderUserTable(users []okapi.User) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Username", "Barcode", "Active")

	for _, user := range users {
		_ = table.Append(user.ID, user.Username, user.Barcode, fmt.Sprintf("%t", user.Active))
	}

	_ = table.Render()
}
