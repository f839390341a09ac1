package main

import (
	"OceanMirror/internal/logger"
	"OceanMirror/internal/water"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher reloads the ocean config file whenever it changes on disk.
// Only the newest valid config is kept until it is read.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	configs chan water.Config
	wg      sync.WaitGroup
}

func WatchConfig(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	cw := &ConfigWatcher{
		path:    abs,
		watcher: w,
		configs: make(chan water.Config, 1),
	}
	cw.wg.Add(1)
	go cw.run()
	logger.Log.Info("Watching ocean config", zap.String("path", abs))
	return cw, nil
}

func (cw *ConfigWatcher) Configs() <-chan water.Config {
	return cw.configs
}

func (cw *ConfigWatcher) run() {
	defer cw.wg.Done()
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := water.LoadConfig(cw.path)
			if err != nil {
				logger.Log.Warn("Ignoring ocean config change", zap.Error(err))
				continue
			}
			cw.publish(cfg)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Config watcher error", zap.Error(err))
		}
	}
}

func (cw *ConfigWatcher) publish(cfg water.Config) {
	for {
		select {
		case cw.configs <- cfg:
			return
		default:
		}
		// Drop the stale config nobody read yet.
		select {
		case <-cw.configs:
		default:
		}
	}
}

func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	cw.wg.Wait()
	return err
}

type configTarget interface {
	ApplyConfig(cfg water.Config) error
}

// ConfigReloader applies watched configs on the render thread. It must run
// before the ocean surface so a new config is used by the same frame.
type ConfigReloader struct {
	Target  configTarget
	Configs <-chan water.Config
}

func (r *ConfigReloader) Start() {}

func (r *ConfigReloader) Update() {
	select {
	case cfg, ok := <-r.Configs:
		if !ok {
			r.Configs = nil
			return
		}
		if err := r.Target.ApplyConfig(cfg); err != nil {
			logger.Log.Warn("Ocean config rejected", zap.Error(err))
			return
		}
		logger.Log.Info("Ocean config reloaded")
	default:
	}
}

func (r *ConfigReloader) UpdateFixed() {}
