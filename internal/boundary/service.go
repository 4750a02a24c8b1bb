// Package boundary exposes extension and setup operations to a presentation
// layer. Every call returns a plain value: failures are logged with the
// operation and identifier and reported as false, nil or an empty result.
package boundary

import (
	"context"

	"github.com/kiosk-labs/kiosk/internal/registry"
	"github.com/kiosk-labs/kiosk/internal/setup"
	"github.com/rs/zerolog"
)

// Service owns the registry for the lifetime of the process.
type Service struct {
	reg   *registry.Registry
	setup *setup.Manager
	log   zerolog.Logger
}

// New returns a Service over reg and setupMgr. Call Start before serving
// requests.
func New(reg *registry.Registry, setupMgr *setup.Manager, log zerolog.Logger) *Service {
	return &Service{
		reg:   reg,
		setup: setupMgr,
		log:   log.With().Str("component", "boundary").Logger(),
	}
}

// Start performs the initial load of both extension roots.
func (s *Service) Start(ctx context.Context) map[string]registry.Entry {
	return s.reload(ctx, "start")
}

// Registry returns the underlying registry.
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// GetExtensions returns the current id to entry mapping.
func (s *Service) GetExtensions() map[string]registry.Entry {
	return s.reg.GetAll()
}

// GetExtension returns one entry.
func (s *Service) GetExtension(id string) (registry.Entry, bool) {
	return s.reg.Get(id)
}

// ReloadExtensions rescans both roots and returns the new mapping. When the
// rescan fails the previous mapping is returned.
func (s *Service) ReloadExtensions() map[string]registry.Entry {
	return s.reload(context.Background(), "reloadExtensions")
}

// Reload is ReloadExtensions for callers that need to know whether the rescan
// happened. The failure is logged either way.
func (s *Service) Reload(ctx context.Context) (map[string]registry.Entry, error) {
	all, err := s.reg.LoadAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("op", "reload").Msg("reload failed")
	}
	return all, err
}

func (s *Service) reload(ctx context.Context, op string) map[string]registry.Entry {
	all, err := s.reg.LoadAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("reload failed")
	}
	return all
}

// InstallExtension installs the bundle directory at path.
func (s *Service) InstallExtension(path string) bool {
	e, err := s.reg.Install(context.Background(), path)
	if err != nil {
		s.log.Error().Err(err).Str("op", "installExtension").Str("path", path).Msg("install failed")
		return false
	}
	s.log.Info().Str("op", "installExtension").Str("id", e.ID).Msg("installed")
	return true
}

// UninstallExtension removes a user-installed extension.
func (s *Service) UninstallExtension(id string) bool {
	if err := s.reg.Uninstall(context.Background(), id); err != nil {
		s.log.Error().Err(err).Str("op", "uninstallExtension").Str("id", id).Msg("uninstall failed")
		return false
	}
	return true
}

// GetSetupQuestions returns the ordered setup questions, or an empty slice.
func (s *Service) GetSetupQuestions() []setup.Question {
	qs, err := s.setup.Questions()
	if err != nil {
		s.log.Error().Err(err).Str("op", "getSetupQuestions").Msg("reading questions failed")
		return []setup.Question{}
	}
	return qs
}

// SaveUserConfig stores the setup answers.
func (s *Service) SaveUserConfig(cfg setup.UserConfig) bool {
	if err := s.setup.Save(cfg); err != nil {
		s.log.Error().Err(err).Str("op", "saveUserConfig").Msg("saving user config failed")
		return false
	}
	return true
}

// GetUserConfig returns the saved answers, or nil when there are none.
func (s *Service) GetUserConfig() setup.UserConfig {
	cfg, err := s.setup.Load()
	if err != nil {
		s.log.Error().Err(err).Str("op", "getUserConfig").Msg("reading user config failed")
		return nil
	}
	return cfg
}

// IsSetupCompleted reports whether answers have been saved.
func (s *Service) IsSetupCompleted() bool {
	return s.setup.IsCompleted()
}

// ResetSetup deletes the saved answers.
func (s *Service) ResetSetup() bool {
	ok, err := s.setup.Reset()
	if err != nil {
		s.log.Error().Err(err).Str("op", "resetSetup").Msg("reset failed")
		return false
	}
	return ok
}
