// Command globewatch follows the step challenge roster and writes one JSON
// line per globe frame and camera move to stdout.
//
// With a refresh token the watcher signs in to mark the viewer's own marker
// and ring. SIGHUP re-checks the session and recentres the camera.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/stepglobe/pkg/geo"
	"github.com/aussiebroadwan/stepglobe/pkg/globe"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

type config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ServerURL string        `env:"STEPGLOBE_URL" envDefault:"http://localhost:8080"`
	Interval  time.Duration `env:"GLOBEWATCH_INTERVAL" envDefault:"30s"`

	// TokenFile holds the viewer's refresh token. It is rewritten on every
	// rotation. Empty watches anonymously.
	TokenFile string `env:"GLOBEWATCH_TOKEN_FILE"`

	StepLengthM float64 `env:"GEO_STEP_LENGTH_M" envDefault:"0.75"`
}

func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}
	if cfg.StepLengthM <= 0 {
		return config{}, errors.New("GEO_STEP_LENGTH_M must be positive")
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slogx.New(slogx.Config{
		Service: "globewatch",
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("globewatch stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	client := stepsdk.NewClient(cfg.ServerURL)

	proj := geo.Default
	proj.StepLengthM = cfg.StepLengthM

	rec := globe.NewReconciler(client, globe.NewJSONSurface(os.Stdout), logger)
	rec.Projection = proj
	rec.Interval = cfg.Interval

	unsubscribe := client.OnSessionChange(func(ev stepsdk.SessionEvent) {
		switch ev.Type {
		case stepsdk.EventSignedIn, stepsdk.EventTokenRefreshed:
			if ev.Account != nil {
				rec.State.SetViewer(ev.Account.ID)
			}
			saveToken(logger, cfg.TokenFile, ev.Session.RefreshToken())
		case stepsdk.EventSignedOut:
			logger.Info("session ended, watching anonymously")
			rec.Reset()
			rec.Refresh()
		}
	})
	defer unsubscribe()

	var sess *stepsdk.Session
	if token := readToken(logger, cfg.TokenFile); token != "" {
		s, res, err := client.SignInWithRefreshToken(ctx, token)
		if err != nil {
			logger.Warn("sign-in failed, watching anonymously", "err", err)
		} else {
			sess = s
			logger.Info("signed in", "account_id", res.Account.ID, "approved", res.Account.IsApproved)
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if sess != nil && !sess.SignedOut() {
					// Me refreshes an expiring token and ends a revoked session.
					if _, err := sess.Me(ctx); err != nil {
						logger.Warn("session check failed", "err", err)
					}
				}
				rec.Refresh()
			}
		}
	}()

	logger.Info("globewatch started", "server", cfg.ServerURL, "interval", cfg.Interval)
	return rec.Run(ctx)
}

func readToken(logger *slog.Logger, path string) string {
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read token file", "path", path, "err", err)
		}
		return ""
	}
	return strings.TrimSpace(string(b))
}

func saveToken(logger *slog.Logger, path, token string) {
	if path == "" || token == "" {
		return
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		logger.Warn("failed to save refresh token", "path", path, "err", err)
	}
}
