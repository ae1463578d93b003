package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/pkg/folioclient"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration persisted under ~/.okapi.
type Config struct {
	Gateway  string `json:"gateway,omitempty"  yaml:"gateway,omitempty"`
	Tenant   string `json:"tenant,omitempty"   yaml:"tenant,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Output   string `json:"output,omitempty"   yaml:"output,omitempty"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".okapi", "config.yml"), nil
}

// loadConfig reads the persisted CLI configuration, returning an empty
// config when none exists yet.
func loadConfig() *Config {
	config := &Config{}

	path, err := configPath()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

// saveConfig persists the CLI configuration.
func saveConfig(config *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// newClient builds a gateway client from flags, environment, and the
// persisted configuration. The password must come from the environment
// or a flag; it is never persisted.
func newClient(ctx context.Context, password string) (okapi.Client, error) {
	config := loadConfig()

	gateway := viper.GetString("gateway")
	if gateway == "" {
		gateway = config.Gateway
	}

	tenant := viper.GetString("tenant")
	if tenant == "" {
		tenant = config.Tenant
	}

	username := viper.GetString("username")
	if username == "" {
		username = config.Username
	}

	if password == "" {
		password = viper.GetString("password")
	}

	clientConfig := &okapi.Config{
		BaseURL:      gateway,
		Tenant:       tenant,
		Username:     username,
		Password:     password,
		AuthProtocol: okapi.AuthProtocol(config.Protocol),
		Debug:        viper.GetBool("verbose"),
	}

	if viper.GetBool("verbose") {
		clientConfig.Logger = okapi.NewConsoleLogger(os.Stderr, true)
	}

	return folioclient.New(ctx, clientConfig)
}

// renderStructured writes value as JSON or YAML per the output flag,
// reporting false when the table format is in effect.
func renderStructured(value interface{}) (bool, error) {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return true, encoder.Encode(value)
	case constants.FormatYAML:
		return true, yaml.NewEncoder(os.Stdout).Encode(value)
	default:
		return false, nil
	}
}
