package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiosk-labs/kiosk/internal/boundary"
	"github.com/kiosk-labs/kiosk/internal/config"
	"github.com/kiosk-labs/kiosk/internal/logging"
	"github.com/kiosk-labs/kiosk/internal/registry"
	"github.com/kiosk-labs/kiosk/internal/setup"
	"github.com/kiosk-labs/kiosk/internal/userdata"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles the collaborators of one command invocation.
type app struct {
	layout *userdata.Layout
	logger *logging.Logger
	log    zerolog.Logger
	setup  *setup.Manager
	svc    *boundary.Service
}

// resolveLayout loads settings and resolves every path the commands use.
// Nothing is created on disk.
func resolveLayout() (*userdata.Layout, config.Settings, error) {
	if err := config.Load(); err != nil {
		return nil, config.Settings{}, err
	}
	settings := config.Current()

	layout, err := userdata.Resolve(settings.BuiltinDir, settings.QuestionsFile)
	if err != nil {
		return nil, settings, fmt.Errorf("resolving userdata layout: %w", err)
	}
	if flagBuiltin != "" {
		layout.Builtin = flagBuiltin
	}
	return layout, settings, nil
}

// openApp resolves the layout, creates the user extensions root on first run
// and wires the boundary Service. The registry is still empty; callers that
// read extensions call a.load first.
func openApp(cmd *cobra.Command) (*app, error) {
	layout, settings, err := resolveLayout()
	if err != nil {
		return nil, err
	}
	if _, _, err := userdata.EnsureExtensionsRoot(); err != nil {
		return nil, err
	}
	return newApp(cmd, layout, settings)
}

func newApp(cmd *cobra.Command, layout *userdata.Layout, settings config.Settings) (*app, error) {
	level := settings.LogLevel
	consoleLevel := "warn"
	if settings.LogConsole {
		consoleLevel = ""
	}
	if flagVerbose {
		level, consoleLevel = "debug", "debug"
	}

	logger, err := logging.New(logging.Config{
		LogDir:       layout.LogsDir,
		Level:        level,
		Console:      true,
		Out:          cmd.ErrOrStderr(),
		ConsoleLevel: consoleLevel,
	})
	if err != nil {
		return nil, err
	}
	zl := logger.Zerolog()

	reg := registry.New(
		registry.Roots{Builtin: layout.Builtin, User: layout.Extensions},
		registry.WithLogger(zl),
		registry.WithLockFile(layout.Lock),
	)
	mgr := setup.NewManager(layout.Questions, layout.UserConfig, zl)

	return &app{
		layout: layout,
		logger: logger,
		log:    logger.Component("cli").With().Str("command", cmd.Name()).Logger(),
		setup:  mgr,
		svc:    boundary.New(reg, mgr, zl),
	}, nil
}

// load rescans both roots. A rescan that did not happen fails the command
// instead of reporting an empty registry.
func (a *app) load(ctx context.Context) (map[string]registry.Entry, error) {
	all, err := a.svc.Reload(ctx)
	if err != nil {
		return nil, a.failed("loading extensions: %v", err)
	}
	return all, nil
}

func (a *app) Close() {
	_ = a.logger.Close()
}

// failed is the error commands return when the boundary reports false.
func (a *app) failed(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p := a.logger.Path(); p != "" {
		return fmt.Errorf("%s (details in %s)", msg, p)
	}
	return errors.New(msg)
}
