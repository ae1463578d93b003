package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		gateway  string
		tenant   string
		username string
		password string
		rotating bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a FOLIO gateway",
		Long:  "Authenticate a tenant session against a FOLIO Okapi gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gateway == "" {
				gateway = viper.GetString("gateway")
			}

			if tenant == "" {
				tenant = viper.GetString("tenant")
			}

			reader := bufio.NewReader(os.Stdin)

			if gateway == "" {
				fmt.Print("Gateway URL: ")
				gateway, _ = reader.ReadString('\n')
				gateway = strings.TrimSpace(gateway)
			}

			if gateway == "" {
				return fmt.Errorf("gateway URL is required")
			}

			if tenant == "" {
				fmt.Print("Tenant: ")
				tenant, _ = reader.ReadString('\n')
				tenant = strings.TrimSpace(tenant)
			}

			if tenant == "" {
				return fmt.Errorf("tenant is required")
			}

			if username == "" {
				fmt.Print("Username: ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}

			if password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			}

			config := loadConfig()
			config.Gateway = gateway
			config.Tenant = tenant
			config.Username = username

			config.Protocol = "legacy"
			if rotating {
				config.Protocol = "rotating"
			}

			// Passwords are never persisted; only confirm the session works.
			if err := saveConfig(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			viper.Set("gateway", gateway)
			viper.Set("tenant", tenant)
			viper.Set("username", username)

			client, err := newClient(context.Background(), password)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			_, err = client.CurrentToken(context.Background())
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			fmt.Printf("Successfully logged in to %s as %s (tenant %s)\n", gateway, username, tenant)

			return nil
		},
	}

	cmd.Flags().StringVarP(&gateway, "gateway", "g", "", "gateway base URL")
	cmd.Flags().StringVarP(&tenant, "tenant", "t", "", "tenant identifier")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication")
	cmd.Flags().BoolVar(&rotating, "rotating", false, "use the rotating-token login flow")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the FOLIO gateway",
		Long:  "Clear the persisted session settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Username = ""
			config.Protocol = ""

			if err := saveConfig(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}
