package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/almanac/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	Compression string `yaml:"compression,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize almanac storage",
		Long: "Create the configuration and data directories, write config.yaml if it\n" +
			"is missing, and seed the store with the built-in calendar data.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}
	cfg := configFile{
		Backend:     a.config.Backend,
		DataDir:     a.config.DataDir,
		Compression: a.config.Compression,
	}
	if err := writeConfigIfMissing(paths.ConfigFile(a.configDir), cfg); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	keys, err := store.Keys()
	if err != nil {
		store.Detach()
		return classify(err)
	}
	if err := store.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	if a.flags.jsonMode {
		return printJSON(cmd, map[string]any{
			"config_dir": a.configDir,
			"data_dir":   a.config.DataDir,
			"keys":       len(keys),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "almanac initialized in %s (%d keys)\n", a.config.DataDir, len(keys))
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. An existing file is left untouched.
func writeConfigIfMissing(path string, cfg configFile) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
