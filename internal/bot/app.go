// Package bot wires the conversation engine together: transport, session
// store, uploader, repositories, and the dispatcher, and runs the event
// loop with graceful shutdown.
package bot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/winelog/internal/bot/config"
	"github.com/dmitrijs2005/winelog/internal/bot/engine"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/repomanager"
	"github.com/dmitrijs2005/winelog/internal/bot/services"
	"github.com/dmitrijs2005/winelog/internal/bot/session"
	"github.com/dmitrijs2005/winelog/internal/bot/storage"
	"github.com/dmitrijs2005/winelog/internal/bot/transport"
	"github.com/dmitrijs2005/winelog/internal/logging"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	sessions   session.Store
	telegram   *transport.Telegram
	dispatcher *engine.Dispatcher
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	sessions, err := newSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	tg, err := transport.NewTelegram(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	uploader, err := storage.NewS3Uploader(cfg, tg, logger)
	if err != nil {
		return nil, err
	}

	userService := services.NewUserService(db, m)
	recordService := services.NewRecordService(db, m)

	eng := engine.New(sessions, uploader, recordService, logger)
	dispatcher := engine.NewDispatcher(eng, sessions, userService, tg, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		sessions:   sessions,
		telegram:   tg,
		dispatcher: dispatcher,
	}, nil
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendSQLite:
		return session.NewSQLiteStore(cfg.SessionFilePath)
	case config.SessionBackendMemory, "":
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend: %q", cfg.SessionBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the long-poll event loop and the idle-session janitor and
// blocks until ctx is cancelled or a component fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting bot...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for ev := range app.telegram.Events(ctx) {
			ev := ev
			// Concurrency across users; the dispatcher serializes per user.
			go app.dispatcher.Handle(ctx, &ev)
		}
		return nil
	})

	if app.config.SessionTTL > 0 {
		g.Go(func() error {
			return app.runSessionJanitor(ctx)
		})
	}

	err := g.Wait()

	if closer, ok := app.sessions.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	_ = app.db.Close()

	return err
}

// runSessionJanitor clears sessions that have been open longer than the
// configured TTL. An abandoned conversation otherwise lives forever.
func (app *App) runSessionJanitor(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cutoff := time.Now().Add(-app.config.SessionTTL)
			n, err := app.sessions.ClearOlderThan(ctx, cutoff)
			if err != nil {
				app.logger.Error(ctx, "session janitor error", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "cleared idle sessions", "count", n)
			}
		}
	}
}
