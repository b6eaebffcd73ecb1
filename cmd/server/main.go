package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"arenafall/server/internal/hub"
	"arenafall/server/internal/sim"
	"arenafall/server/internal/world"
)

func main() {
	loadDefaults()
	viper.SetEnvPrefix("arenafall")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			bootLogger := zerolog.New(os.Stderr)
			bootLogger.Fatal().Err(err).Msg("failed to read config")
		}
	}

	logger := newLogger()

	levelPath := viper.GetString("level.path")
	level, err := loadLevel(levelPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", levelPath).Msg("failed to load level")
	}
	logger.Info().Str("level", level.Name).Int("colliders", len(level.Colliders())).Msg("level loaded")

	cfg := world.Config{
		Seed:          viper.GetString("world.seed"),
		BaseAgents:    viper.GetInt("world.baseAgents"),
		AgentsPerWave: viper.GetInt("world.agentsPerWave"),
		WaveDelay:     viper.GetFloat64("world.waveDelay"),
		DropChance:    viper.GetFloat64("world.dropChance"),
	}
	w := world.New(cfg, level, logger)

	loopCfg := sim.LoopConfig{
		TickRate:        viper.GetInt("sim.tickRate"),
		CatchupMaxTicks: viper.GetInt("sim.catchupMaxTicks"),
	}

	var h *hub.Hub
	loop := sim.NewLoop(w, loopCfg, sim.LoopHooks{
		AfterStep: func(result sim.StepResult) {
			if h != nil {
				h.Broadcast(result.Snapshot)
			}
		},
	})
	h = hub.New(loop, level, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stop := make(chan struct{})
	go loop.Run(stop)

	if levelPath != "" {
		go watchLevel(ctx, levelPath, loop, h, logger)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := viper.GetString("server.addr")
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	close(stop)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

func loadDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("sim.tickRate", 60)
	viper.SetDefault("sim.catchupMaxTicks", 6)
	viper.SetDefault("world.seed", "arena")
	viper.SetDefault("world.baseAgents", 3)
	viper.SetDefault("world.agentsPerWave", 2)
	viper.SetDefault("world.waveDelay", 3.0)
	viper.SetDefault("world.dropChance", 0.3)
	viper.SetDefault("level.path", "")
	viper.SetDefault("log.level", "info")
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log.level")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func loadLevel(path string) (*world.Level, error) {
	if path == "" {
		return world.BuiltinArena(), nil
	}
	return world.LoadLevel(path)
}

// watchLevel reloads the level document when it changes on disk, swaps it
// into the running simulation through the command queue, and hands the new
// geometry to the hub so clients stay in sync.
func watchLevel(ctx context.Context, path string, loop *sim.Loop, h *hub.Hub, logger zerolog.Logger) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn().Err(err).Msg("level watcher unavailable")
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn().Err(err).Msg("failed to watch level directory")
		return
	}

	target := filepath.Clean(path)
	var lastReload time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if time.Since(lastReload) < 200*time.Millisecond {
				continue
			}
			lastReload = time.Now()

			level, err := world.LoadLevel(path)
			if err != nil {
				logger.Warn().Err(err).Msg("level reload failed; keeping current level")
				continue
			}
			if !loop.Enqueue(world.Command{Type: world.CommandSwapLevel, Level: level}) {
				logger.Warn().Str("level", level.Name).Msg("command queue full; level reload dropped")
				continue
			}
			h.SetLevel(level)
			logger.Info().Str("level", level.Name).Msg("level reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("level watcher error")
		}
	}
}
