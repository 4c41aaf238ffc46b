package web

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/micromarket/storefront/internal/backend"
	favobs "github.com/micromarket/storefront/internal/domains/favorites/adapters/observability"
	favapp "github.com/micromarket/storefront/internal/domains/favorites/application"
	sessionfile "github.com/micromarket/storefront/internal/domains/session/adapters/file"
	sessionmemory "github.com/micromarket/storefront/internal/domains/session/adapters/memory"
	sessionapp "github.com/micromarket/storefront/internal/domains/session/application"
	sessionports "github.com/micromarket/storefront/internal/domains/session/ports"
	platformobservability "github.com/micromarket/storefront/internal/platform/observability"
	"github.com/micromarket/storefront/internal/webui"
)

// Run boots the MicroMarket storefront with observability, stores, and the
// page router wired.
func Run(ctx context.Context) error {
	const serviceName = "micromarket-web"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	session := sessionapp.NewStore(buildTokenStorage(cfg, logger), sessionapp.WithLogger(logger))
	client := backend.New(cfg.BackendBaseURL, session,
		backend.WithLogger(logger),
		backend.WithUnauthorizedHook(session.Logout),
	)
	favorites := favobs.New(
		favapp.NewStore(client, session),
		favobs.WithLogger(logger),
		favobs.WithTracer(instruments.Tracer("internal.favorites.application")),
		favobs.WithMeter(instruments.Meter("internal.favorites.application")),
	)

	// Favorites follow every authenticated-state flip: reload on login,
	// empty out on logout. Subscribing before Restore means a persisted
	// token also triggers the initial load.
	session.Subscribe(func(bool) {
		reloadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = favorites.Reload(reloadCtx)
	})
	if err := session.Restore(); err != nil {
		logger.Warn("could not restore a persisted session, starting logged out", slog.String("error", err.Error()))
	}

	server := webui.NewServer(webui.Deps{
		Backend:   client,
		Session:   session,
		Favorites: favorites,
		Logger:    logger,
	})
	router := webui.NewRouter(server, serviceName)

	addr := ":" + cfg.Port
	logger.Info("MicroMarket storefront listening",
		slog.String("addr", addr),
		slog.String("backend", cfg.BackendBaseURL),
	)
	if err := router.Run(addr); err != nil {
		logger.Error("storefront server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildTokenStorage(cfg Config, logger *slog.Logger) sessionports.TokenStorage {
	path := cfg.TokenPath
	if path == "" {
		resolved, err := sessionfile.DefaultPath()
		if err != nil {
			logger.Warn("no durable token location available, sessions will not survive restarts", slog.String("error", err.Error()))
			return sessionmemory.NewStorage()
		}
		path = resolved
	}
	storage, err := sessionfile.New(path)
	if err != nil {
		logger.Warn("failed to prepare token storage, sessions will not survive restarts", slog.String("error", err.Error()))
		return sessionmemory.NewStorage()
	}
	return storage
}
