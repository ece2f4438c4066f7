// Package cli implements the almanac command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/almanac/internal/logging"
	"github.com/mesh-intelligence/almanac/internal/paths"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by the subcommands of one root command. It is
// filled in by the persistent pre-run hook.
type app struct {
	flags     rootFlags
	configDir string
	config    types.Config
	logger    zerolog.Logger
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input.
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks err as caused by the environment.
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// classify picks the exit code of a data error: I/O failures are system
// errors, everything else is the caller's fault.
func classify(err error) error {
	if types.KindOf(err) == types.ErrIo {
		return sysError(err)
	}
	return userError(err)
}

// exitCode returns the exit code for an error returned by Execute.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "almanac" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "almanac",
		Short: "Locale-keyed calendar data",
		Long: "Almanac stores calendar data buffers keyed by data key and locale,\n" +
			"and answers era, week and symbol lookups with locale fallback.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newKeysCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newEraCmd(a))
	root.AddCommand(newWeekCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves directories, reads config.yaml and configures logging.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.logger = logging.Configure(logging.ProfileRuntime)

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return userError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	a.configDir = configDir
	a.config = types.Config{
		Backend:     v.GetString(cfgKeyBackend),
		DataDir:     dataDir,
		Compression: v.GetString(cfgKeyCompression),
	}
	a.logger.Debug().
		Str("config_dir", configDir).
		Str("data_dir", dataDir).
		Str("compression", a.config.Compression).
		Msg("resolved configuration")
	return nil
}
