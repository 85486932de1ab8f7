package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ct2go/internal/config"
	"ct2go/internal/engine"
	"ct2go/internal/httpapi"
	"ct2go/internal/registry"
	"ct2go/pkg/ct2"
	"ct2go/pkg/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath      string
		addr         string
		modelsDir    string
		device       string
		computeType  string
		defaultModel string
		maxLoaded    int
		logLevel     string
		corsOrigins  string
	)

	cmd := &cobra.Command{
		Use:   "ct2d",
		Short: "Serve converted CTranslate2 models over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			// Flags given explicitly win over the config file.
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("models-dir") || cfg.ModelsDir == "" {
				cfg.ModelsDir = modelsDir
			}
			if cmd.Flags().Changed("device") || cfg.Device == "" {
				cfg.Device = device
			}
			if cmd.Flags().Changed("compute-type") || cfg.ComputeType == "" {
				cfg.ComputeType = computeType
			}
			if cmd.Flags().Changed("default-model") {
				cfg.DefaultModel = defaultModel
			}
			if cmd.Flags().Changed("max-loaded-models") {
				cfg.MaxLoadedModels = maxLoaded
			}
			return run(cfg, logLevel, splitCSV(corsOrigins))
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to a yaml/json/toml config file")
	cmd.Flags().StringVar(&addr, "addr", envOr("CT2D_ADDR", ":8080"), "HTTP listen address")
	cmd.Flags().StringVar(&modelsDir, "models-dir", "~/models/ct2", "Directory to scan for converted model directories")
	cmd.Flags().StringVar(&device, "device", "cpu", "Device models are placed on (cpu, cuda)")
	cmd.Flags().StringVar(&computeType, "compute-type", "default", "Computation precision (default, auto, float32, float16, int8, int8_float16, int16)")
	cmd.Flags().StringVar(&defaultModel, "default-model", "", "Default model id when a request omits one")
	cmd.Flags().IntVar(&maxLoaded, "max-loaded-models", 0, "Maximum concurrently loaded models (0=unlimited)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (empty disables CORS)")
	return cmd
}

func run(cfg config.Config, logLevel string, corsOrigins []string) error {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	ct2.SetEngineLogLevel(engineLogLevel(lvl))

	engineCfg, err := engineConfig(cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid engine configuration")
		return err
	}

	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		log.Error().Err(err).Str("dir", cfg.ModelsDir).Msg("model scan failed")
		return err
	}
	log.Info().Int("models", len(reg)).Str("dir", cfg.ModelsDir).Msg("registry loaded")

	mgr := engine.New(reg, engineCfg, cfg.DefaultModel, cfg.MaxLoadedModels, log)

	if len(corsOrigins) > 0 {
		httpapi.SetCORSOptions(true, corsOrigins,
			[]string{"GET", "POST", "OPTIONS"},
			[]string{"Accept", "Content-Type", "X-Log-Level"})
	}
	httpapi.SetLogger(log)
	httpapi.RegisterEngineMetrics(mgr)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("ct2d listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
		mgr.Close()
		return err
	case <-stop:
	}

	log.Info().Msg("shutting down")
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	// Drains in-flight batches before releasing the models.
	if err := mgr.Close(); err != nil {
		log.Warn().Err(err).Msg("engine close error")
	}
	return nil
}

// engineConfig maps the daemon file/flag config onto engine construction
// parameters.
func engineConfig(cfg config.Config) (types.Config, error) {
	out := types.DefaultConfig()
	dev, err := types.ParseDevice(cfg.Device)
	if err != nil {
		return out, err
	}
	ct, err := types.ParseComputeType(cfg.ComputeType)
	if err != nil {
		return out, err
	}
	out.Device = dev
	out.ComputeType = ct
	if len(cfg.DeviceIndices) > 0 {
		out.DeviceIndices = cfg.DeviceIndices
	}
	out.NumThreadsPerReplica = cfg.NumThreadsPerReplica
	out.MaxQueuedBatches = cfg.MaxQueuedBatches
	return out, nil
}

// engineLogLevel maps the daemon's zerolog level onto the engine's global
// verbosity so native logs track the daemon's.
func engineLogLevel(lvl zerolog.Level) types.LogLevel {
	switch {
	case lvl <= zerolog.TraceLevel:
		return types.LogTrace
	case lvl == zerolog.DebugLevel:
		return types.LogDebug
	case lvl == zerolog.InfoLevel:
		return types.LogInfo
	case lvl == zerolog.WarnLevel:
		return types.LogWarning
	case lvl == zerolog.ErrorLevel:
		return types.LogError
	case lvl == zerolog.FatalLevel || lvl == zerolog.PanicLevel:
		return types.LogCritical
	default:
		return types.LogOff
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated flag value, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
