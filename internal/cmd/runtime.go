package cmd

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/account"
	"github.com/felixgeelhaar/evolvedu/internal/config"
	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/notify"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
	"github.com/felixgeelhaar/evolvedu/internal/session"
	"github.com/felixgeelhaar/evolvedu/internal/storage"
	"github.com/felixgeelhaar/evolvedu/internal/tui"
	"github.com/felixgeelhaar/evolvedu/internal/ux"
	"github.com/felixgeelhaar/evolvedu/internal/version"
)

type runtimeKey struct{}

// runtime is what a command runs with: the effective configuration and the
// wired services. The session and gateway are built on first use, so
// commands that never touch the API do not create storage.
type runtime struct {
	cmd        *cobra.Command
	flags      *CommandContext
	cfg        *config.Config
	configPath string
	logger     *log.Logger
	toaster    *notify.Toaster
	formatter  ux.Formatter

	// interactive enables prompts and the spinner.
	interactive bool

	baseURL  string
	kv       *storage.FileKV
	store    *session.Store
	client   *platform.Client
	accounts *account.Service

	expiredCount atomic.Int32
}

// setupRuntime is the root PersistentPreRunE.
func setupRuntime(cmd *cobra.Command, _ []string) error {
	flags, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}

	path := flags.ConfigPath
	if path == "" {
		path, err = config.Path()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Apply(config.Overrides{
		APIURL:   flags.APIURL,
		LogLevel: flags.LogLevel,
		NoColor:  flags.NoColor,
	})

	formatter, err := ux.NewFormatter(flags.Format, &ux.FormatterOptions{
		Writer:  cmd.OutOrStdout(),
		NoColor: cfg.NoColor,
	})
	if err != nil {
		return err
	}

	logger := log.New(log.FromSettings(cfg.Log.Level, cfg.Log.Format, version.Version, cmd.ErrOrStderr()))
	log.SetDefaultLogger(logger)

	r := &runtime{
		cmd:        cmd,
		flags:      flags,
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		toaster: notify.NewToaster(
			notify.WithWriter(cmd.ErrOrStderr()),
			notify.WithNoColor(cfg.NoColor),
			notify.WithQuiet(flags.Quiet),
		),
		formatter:   formatter,
		interactive: tui.ShouldPrompt() && !flags.Quiet,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, r))
	return nil
}

func runtimeFrom(cmd *cobra.Command) *runtime {
	if cmd == nil || cmd.Context() == nil {
		return nil
	}
	r, _ := cmd.Context().Value(runtimeKey{}).(*runtime)
	return r
}

// mustRuntime returns the runtime set up by the root command.
func mustRuntime(cmd *cobra.Command) (*runtime, error) {
	r := runtimeFrom(cmd)
	if r == nil {
		return nil, fmt.Errorf("command %q ran without setup", cmd.Name())
	}
	return r, nil
}

// account wires storage, session, gateway and account service and restores
// the persisted session.
func (r *runtime) account() (*account.Service, error) {
	if r.accounts != nil {
		return r.accounts, nil
	}

	baseURL, err := r.cfg.BaseURL()
	if err != nil {
		return nil, err
	}
	root, err := r.cfg.StorageRoot()
	if err != nil {
		return nil, err
	}
	kv, err := storage.OpenOrigin(root, baseURL)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(kv, session.WithLogger(r.logger))
	client, err := platform.NewClient(baseURL,
		platform.WithSession(store),
		platform.WithNotifier(r.toaster),
		platform.WithSessionExpired(r.onSessionExpired),
		platform.WithLogger(r.logger),
		platform.WithTimeout(r.cfg.HTTPTimeout),
		platform.WithUserAgent(version.GetInfo().UserAgent()),
	)
	if err != nil {
		return nil, err
	}

	r.baseURL = baseURL
	r.kv = kv
	r.store = store
	r.client = client
	r.accounts = account.NewService(client, store, r.toaster, account.WithLogger(r.logger))
	r.accounts.Restore()
	return r.accounts, nil
}

// onSessionExpired runs after a 401 cleared the session. In-process state is
// gone, so the user is pointed back to login.
func (r *runtime) onSessionExpired(context.Context) {
	if r.expiredCount.Add(1) > 1 {
		return
	}
	fmt.Fprintln(r.cmd.ErrOrStderr(), "Run 'evolvedu auth login' to sign in again.")
}

func (r *runtime) expired() bool {
	return r.expiredCount.Load() > 0
}

// call runs a gateway call behind the spinner.
func (r *runtime) call(title string, fn func(context.Context) error) error {
	return tui.WithSpinner(r.cmd.Context(), r.interactive, title, fn)
}

// render writes data with the selected formatter. Text output uses panel.
func (r *runtime) render(data any, panel ux.Panel) error {
	if r.flags.Format == "text" || r.flags.Format == "" {
		return r.formatter.Format(panel)
	}
	return r.formatter.Format(data)
}
