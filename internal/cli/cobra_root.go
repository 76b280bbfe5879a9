package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"worklog/internal/config"
)

// Builder wires an App from the loaded configuration. The returned cleanup
// runs once the command has finished, even when it failed.
type Builder func(cfg *config.Config) (*App, func(), error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	build   Builder
	config  *config.Config
	app     *App
	cleanup func()
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(build Builder) *RootCommand {
	root := &RootCommand{build: build}

	root.cmd = &cobra.Command{
		Use:   "wl",
		Short: "Record work logs with automatic saving",
		Long: `wl records start/end times, breaks and a memo against a project. Every
change is backed up locally at once and saved to the work-log service
shortly after, so nothing is lost when the network or the process fails.

EXAMPLES:
  wl session PRJ-42                       # Open an interactive session for a project
  wl resume                               # Pick an unsaved draft and continue it
  wl drafts list 1d                       # Local drafts written in the last day
  wl drafts show PRJ-42                   # Show one draft
  wl drafts clear PRJ-42 --yes            # Drop a draft
  wl drafts export format=csv > d.csv     # Export drafts

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  The config file is TOML, by default $XDG_CONFIG_HOME/wl/config.toml.

  Autosave:
    WL_AUTOSAVE_DEBOUNCE                   Delay before a remote save (default: 1s)
    WL_AUTOSAVE_SAVE_TIMEOUT               Timeout of one remote save (default: 10s)

  Local backup:
    WL_LOCAL_BACKEND                       sqlite or bolt (default: sqlite)
    WL_LOCAL_DIR                           Directory (default: $XDG_DATA_HOME/wl)
    WL_LOCAL_FILENAME                      Filename (default: drafts.db)
    WL_LOCAL_RECOVERY_TTL                  Age after which a draft is stale (default: 30m)

  Remote:
    WL_REMOTE_BASE_URL                     Work-log service URL
    WL_REMOTE_TOKEN                        Bearer token

  Validation:
    WL_VALIDATION_RETENTION                How far back times may go (default: 720h)
    WL_VALIDATION_MAX_DURATION             Longest work log (default: 24h)
    WL_VALIDATION_MEMO_MAX                 Memo length limit (default: 2000)

  Notifications and logging:
    WL_NOTIFY_ENABLED, WL_NOTIFY_DESKTOP, WL_LOG_DEBUG, WL_LOG_FILE`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases everything setup acquired
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides the command line, mainly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Config returns the configuration loaded for the running command
func (r *RootCommand) Config() *config.Config {
	return r.config
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Path to the TOML config file")

	flags.Duration("debounce", 0, "Delay before a remote save (overrides WL_AUTOSAVE_DEBOUNCE)")

	flags.String("backend", "", "Local backup backend: sqlite or bolt (overrides WL_LOCAL_BACKEND)")
	flags.String("local-dir", "", "Local backup directory (overrides WL_LOCAL_DIR)")
	flags.String("local-filename", "", "Local backup filename (overrides WL_LOCAL_FILENAME)")

	flags.String("remote-url", "", "Work-log service URL (overrides WL_REMOTE_BASE_URL)")
	flags.String("token", "", "Work-log service token (overrides WL_REMOTE_TOKEN)")

	flags.Bool("notify", true, "Show save notifications (overrides WL_NOTIFY_ENABLED)")
	flags.Bool("desktop", false, "Also send desktop notifications (overrides WL_NOTIFY_DESKTOP)")

	flags.Bool("debug", false, "Log debug output to stderr (overrides WL_LOG_DEBUG)")
	flags.String("log-file", "", "Write JSON logs to this file (overrides WL_LOG_FILE)")
}

func (r *RootCommand) addSubcommands() {
	sessionCmd := &cobra.Command{
		Use:   "session <project-id>",
		Short: "Open an interactive work-log session",
		Long: `Open an interactive session for a project. If an unsaved draft of the
project is found you are asked whether to restore it.

` + sessionHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd.Context(), append([]string{"session"}, args...))
		},
	}

	resumeCmd := &cobra.Command{
		Use:   "resume",
		Short: "Continue an unsaved draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd.Context(), []string{"resume"})
		},
	}

	draftsCmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect local draft backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd.Context(), []string{"drafts", "list"})
		},
	}
	clearCmd := &cobra.Command{
		Use:   "clear <project-id>",
		Short: "Drop a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); yes {
				args = append(args, "--yes")
			}
			return r.drafts("clear")(cmd, args)
		},
	}
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	draftsCmd.AddCommand(
		&cobra.Command{
			Use:   "list [time]",
			Short: "List drafts, optionally only those written within 30m, 2h, 1d or 1w",
			Args:  cobra.MaximumNArgs(1),
			RunE:  r.drafts("list"),
		},
		&cobra.Command{
			Use:   "show <project-id>",
			Short: "Show one draft",
			Args:  cobra.ExactArgs(1),
			RunE:  r.drafts("show"),
		},
		clearCmd,
		&cobra.Command{
			Use:   "export [format=json|csv]",
			Short: "Write all drafts to stdout",
			Args:  cobra.MaximumNArgs(1),
			RunE:  r.drafts("export"),
		},
	)

	r.cmd.AddCommand(sessionCmd, resumeCmd, draftsCmd)
}

func (r *RootCommand) drafts(sub string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return r.run(cmd.Context(), append([]string{"drafts", sub}, args...))
	}
}

// run executes a registry command bounded by the application timeout
func (r *RootCommand) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.getAppTimeout())
	defer cancel()

	return r.app.Run(ctx, args)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 12 * time.Hour
}

// setup loads configuration with flag overrides and builds the App
func (r *RootCommand) setup() error {
	if r.build == nil {
		return fmt.Errorf("application builder not set")
	}

	flags := r.cmd.PersistentFlags()

	loader := config.NewLoader()
	if path, _ := flags.GetString("config"); path != "" {
		loader = config.NewLoaderWithFile(path)
	}

	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	r.config = cfg

	app, cleanup, err := r.build(cfg)
	if err != nil {
		return err
	}
	r.app = app
	r.cleanup = cleanup
	return nil
}

// overridesFromFlags collects the flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("debounce") {
		v, _ := flags.GetDuration("debounce")
		overrides.DebounceDelay = &v
	}
	if flags.Changed("backend") {
		v, _ := flags.GetString("backend")
		overrides.LocalBackend = &v
	}
	if flags.Changed("local-dir") {
		v, _ := flags.GetString("local-dir")
		overrides.LocalDir = &v
	}
	if flags.Changed("local-filename") {
		v, _ := flags.GetString("local-filename")
		overrides.LocalFilename = &v
	}
	if flags.Changed("remote-url") {
		v, _ := flags.GetString("remote-url")
		overrides.RemoteBaseURL = &v
	}
	if flags.Changed("token") {
		v, _ := flags.GetString("token")
		overrides.RemoteToken = &v
	}
	if flags.Changed("notify") {
		v, _ := flags.GetBool("notify")
		overrides.Notify = &v
	}
	if flags.Changed("desktop") {
		v, _ := flags.GetBool("desktop")
		overrides.Desktop = &v
	}
	if flags.Changed("debug") {
		v, _ := flags.GetBool("debug")
		overrides.Debug = &v
	}
	if flags.Changed("log-file") {
		v, _ := flags.GetString("log-file")
		overrides.LogFile = &v
	}

	return overrides
}

func (r *RootCommand) close() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
}
