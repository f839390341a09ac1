package main

import (
	"OceanMirror/internal/engine"
	"OceanMirror/internal/logger"
	"OceanMirror/internal/renderer"
	"OceanMirror/internal/water"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	_ "OceanMirror/scripts"

	"go.uber.org/zap"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	oceanPath := flag.String("ocean", "ocean.yaml", "ocean config file (YAML or JSON)")
	scenePath := flag.String("scene", "", "scene file, the built in scene when empty")
	watch := flag.Bool("watch", true, "reload the ocean config when the file changes")
	flag.Parse()

	gameEngine := engine.NewGopher()
	gameEngine.Title = "OceanMirror"

	err := run(gameEngine, *oceanPath, *scenePath, *watch)
	if err != nil {
		logger.Log.Error("OceanMirror stopped", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(gameEngine *engine.Gopher, oceanPath, scenePath string, watch bool) error {
	cfg, found, err := loadOceanConfig(oceanPath)
	if err != nil {
		return fmt.Errorf("ocean config: %w", err)
	}

	scene, sceneDir := DefaultScene(), ""
	if scenePath != "" {
		if scene, err = LoadScene(scenePath); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		sceneDir = filepath.Dir(scenePath)
	}

	ocean := water.NewSurface(gameEngine, cfg)

	if watch && found {
		watcher, err := WatchConfig(oceanPath)
		if err != nil {
			logger.Log.Warn("Ocean config will not reload", zap.Error(err))
		} else {
			defer watcher.Close()
			gameEngine.AddBehaviour(&ConfigReloader{Target: ocean, Configs: watcher.Configs()})
		}
	}

	gameEngine.SetOnReady(func() {
		setupScene(gameEngine, scene, sceneDir)
		// Added last: props must move before the reflection is captured.
		gameEngine.AddBehaviour(ocean)
	})
	gameEngine.SetOnShutdown(ocean.Destroy)

	return gameEngine.Render(-1, -1)
}

// loadOceanConfig falls back to the defaults when path does not exist.
func loadOceanConfig(path string) (water.Config, bool, error) {
	cfg, err := water.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Info("No ocean config, using defaults", zap.String("path", path))
		return water.DefaultConfig(), false, nil
	}
	if err != nil {
		return water.Config{}, false, err
	}
	return cfg, true, nil
}

func setupScene(g *engine.Gopher, scene *SceneData, dir string) {
	if scene.Camera != nil {
		scene.Camera.applyTo(g.GetCamera())
	}
	if scene.ClearColor != nil {
		c := scene.ClearColor
		g.SetClearColor([3]float32{c[0], c[1], c[2]})
	}

	if len(scene.Lights) == 0 {
		g.SetLight(renderer.CreateSunlight([3]float32{-0.3, -1, -0.4}))
	} else {
		g.SetLight(scene.Lights[0].build())
		if len(scene.Lights) > 1 {
			logger.Log.Warn("Only the first scene light is used", zap.Int("lights", len(scene.Lights)))
		}
	}

	props, err := scene.BuildProps(dir)
	logSceneErrors(err)
	for _, prop := range props {
		if prop.Texture != "" {
			id, err := g.GetRenderer().LoadTexture(prop.Texture)
			if err != nil {
				logger.Log.Warn("Texture not loaded", zap.String("model", prop.Model.Name), zap.Error(err))
			} else {
				if prop.Model.Material == nil {
					m := *renderer.DefaultMaterial
					prop.Model.Material = &m
				}
				prop.Model.Material.TextureID = id
			}
		}
		g.AddModel(prop.Model)
		for _, b := range prop.Behaviours {
			g.AddBehaviour(b)
		}
	}
	logger.Log.Info("Scene loaded", zap.Int("models", len(props)))
}
