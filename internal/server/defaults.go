package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"iri2020/internal/metrics"
	"iri2020/internal/settings"
)

// reloadDelay coalesces the burst of events editors emit on save.
const reloadDelay = 200 * time.Millisecond

// SetDefaults compiles s and makes it the base for every request.
// The previous defaults stay active when compilation fails.
func (s *Server) SetDefaults(def settings.Settings, source string) error {
	c, err := def.Compile()
	if err != nil {
		return err
	}
	metrics.SettingsCompilations.Inc()

	s.mu.Lock()
	s.defaults = def.Clone()
	s.defaultCompiled = c
	s.settingsSource = source
	s.mu.Unlock()
	return nil
}

// Defaults returns the active request defaults and their compiled form.
func (s *Server) Defaults() (settings.Settings, *settings.Compiled) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults.Clone(), s.defaultCompiled
}

// LoadSettingsFile reads a YAML, TOML or JSON file as the request defaults.
func (s *Server) LoadSettingsFile(path string) error {
	def, err := settings.LoadFile(path)
	if err != nil {
		return err
	}
	if err := s.SetDefaults(def, path); err != nil {
		return err
	}
	s.log.Info("Loaded default settings", map[string]interface{}{"file": path})
	return nil
}

// WatchSettings reloads the settings file whenever it changes, until ctx is
// done. The parent directory is watched so atomic-rename saves are seen.
func (s *Server) WatchSettings(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve settings file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	s.log.Info("Watching settings file", map[string]interface{}{"file": abs})

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			s.reload(abs)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Error("Settings watcher error", err)
		}
	}
}

func (s *Server) reload(path string) {
	if err := s.LoadSettingsFile(path); err != nil {
		metrics.SettingsReloads.WithLabelValues("error").Inc()
		s.log.Error("Settings reload failed, keeping previous defaults", err, map[string]interface{}{"file": path})
		return
	}
	metrics.SettingsReloads.WithLabelValues("ok").Inc()
}
