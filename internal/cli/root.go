// Package cli implements the cardfile command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/cardfile/internal/paths"
)

var log = logging.Logger("cardfile/cli")

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError reports a problem with the command line or its input.
func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysError reports a failure of the environment: storage, files, network.
func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps err to a process exit code. Errors without a code, such as
// cobra's argument validation, are user errors.
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

// app holds the global flag values and the loaded configuration shared by
// all subcommands of one root command.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	// resolvedConfigDir and cfg are set by the root PersistentPreRunE.
	resolvedConfigDir string
	cfg               *viper.Viper
}

// NewRootCmd creates the top-level "cardfile" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cardfile",
		Short: "An address book that reads and writes vCard files",
		Long: "cardfile imports contacts from .vcf files, lets you browse and edit them,\n" +
			"and exports them as vCard or CSV.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.cardfile-db)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newImportCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newQRCmd(a),
		newLintCmd(),
		newServeCmd(a),
	)

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(context.Background(), NewRootCmd(), os.Args[1:], os.Stderr))
}

// run executes root with args and returns the exit code, printing any
// error to stderr.
func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

// setup resolves the config directory, loads config.yaml and applies the
// configured log level.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError("load config: %w", err)
	}

	level, err := logging.LevelFromString(cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return userError("invalid %s %q: %w", cfgKeyLogLevel, cfg.GetString(cfgKeyLogLevel), err)
	}
	logging.SetAllLoggers(level)

	a.resolvedConfigDir = configDir
	a.cfg = cfg
	log.Debugw("config loaded", "config_dir", configDir, "file", cfg.ConfigFileUsed())
	return nil
}
