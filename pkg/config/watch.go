package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/marmos91/nfs4wire/internal/logger"
)

// Watcher reloads a configuration file whenever it changes on disk.
type Watcher struct {
	v    *viper.Viper
	path string

	mu      sync.RWMutex
	current *Config
}

// Watch loads path and then watches it. onChange runs on every successful
// reload with the new configuration; a reload that fails to parse or
// validate is logged and the previous configuration is kept.
//
// Only fields that can change at runtime are worth acting on in onChange
// (the log level, for example); the connection settings are read once.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch requires an explicit config path")
	}

	v := viper.New()
	setupViper(v, path)
	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	w := &Watcher{v: v, path: path, current: cfg}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		w.reload(e, onChange)
	})
	v.WatchConfig()

	return w, nil
}

func (w *Watcher) reload(e fsnotify.Event, onChange func(*Config)) {
	cfg, err := unmarshal(w.v)
	if err != nil {
		logger.Warn("Ignoring invalid configuration change",
			logger.KeyPath, e.Name,
			logger.Err(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	logger.Info("Configuration reloaded", logger.KeyPath, e.Name, "op", e.Op.String())
	if onChange != nil {
		onChange(cfg)
	}
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}
