package presenter

import (
	"log/slog"
	"sync"

	"github.com/soocke/pixel-motion-go/config"
	"github.com/soocke/pixel-motion-go/domain/motion"
)

// SettingsStore is the live settings value read by the pipeline.
type SettingsStore interface {
	Load() motion.Settings
	Store(motion.Settings)
	Update(func(*motion.Settings)) motion.Settings
}

// SettingsView shows settings changed outside the panel (file reloads, keys).
type SettingsView interface {
	ShowSettings(motion.Settings)
}

// SettingsPresenter applies settings edits to the live store and persists
// them. Reloads from the config watcher are queued and applied on Tick.
type SettingsPresenter struct {
	store  SettingsStore
	cfg    *config.Config
	path   string
	view   SettingsView
	logger *slog.Logger

	mu      sync.Mutex
	pending *config.Config
}

func NewSettingsPresenter(store SettingsStore, cfg *config.Config, path string, view SettingsView, logger *slog.Logger) *SettingsPresenter {
	return &SettingsPresenter{store: store, cfg: cfg, path: path, view: view, logger: logger}
}

// Apply replaces the live settings with s and saves them. The next pipeline
// cycle uses the new values.
func (p *SettingsPresenter) Apply(s motion.Settings) {
	if p == nil || p.store == nil {
		return
	}
	p.store.Store(s)
	p.persist(s)
}

// Adjust edits the live settings in place, saves them and refreshes the view.
func (p *SettingsPresenter) Adjust(fn func(*motion.Settings)) motion.Settings {
	if p == nil || p.store == nil {
		return motion.Settings{}
	}
	s := p.store.Update(fn)
	p.persist(s)
	if p.view != nil {
		p.view.ShowSettings(s)
	}
	return s
}

func (p *SettingsPresenter) persist(s motion.Settings) {
	if p.cfg == nil {
		return
	}
	p.cfg.SetSettings(s)
	if p.path == "" {
		return
	}
	if err := p.cfg.Save(p.path); err != nil && p.logger != nil {
		p.logger.Error("save config", "error", err, "path", p.path)
	}
}

// OnReload queues a configuration loaded from disk. Safe for any goroutine.
func (p *SettingsPresenter) OnReload(c *config.Config) {
	if p == nil || c == nil {
		return
	}
	p.mu.Lock()
	p.pending = c
	p.mu.Unlock()
}

// Tick applies a queued reload when its settings differ from the live ones.
func (p *SettingsPresenter) Tick() {
	if p == nil || p.store == nil {
		return
	}
	p.mu.Lock()
	c := p.pending
	p.pending = nil
	p.mu.Unlock()
	if c == nil {
		return
	}
	s := c.Settings()
	if s == p.store.Load() {
		return
	}
	p.store.Store(s)
	if p.cfg != nil {
		p.cfg.SetSettings(s)
	}
	if p.view != nil {
		p.view.ShowSettings(s)
	}
	if p.logger != nil {
		p.logger.Info("settings reloaded", "threshold", s.Threshold, "motion_only", s.ShowMotionOnly)
	}
}
