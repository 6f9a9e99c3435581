package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/stagehunt/internal/config"
	"github.com/vancomm/stagehunt/internal/content"
	"github.com/vancomm/stagehunt/internal/database"
	"github.com/vancomm/stagehunt/internal/hunt"
	"github.com/vancomm/stagehunt/internal/middleware"
	"github.com/vancomm/stagehunt/internal/progress"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log     *logrus.Logger
	config  config.Config
	router  *http.ServeMux
	db      *sql.DB
	host    *hunt.Host
	tracker *progress.Tracker
}

func New(log *logrus.Logger, cfg config.Config) *App {
	return &App{
		log:    log,
		config: cfg,
		router: http.NewServeMux(),
	}
}

// Open connects the database and loads the hunt without serving anything.
func (a *App) Open() error {
	db, err := database.ConnectAndMigrate(a.config.Database.Path)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	a.db = db

	store, err := progress.NewStore(db, "kv")
	if err != nil {
		return err
	}
	a.tracker = progress.NewTracker(store)

	h, err := content.LoadHunt()
	if err != nil {
		return fmt.Errorf("unable to load hunt: %w", err)
	}
	a.host = hunt.NewHost(h, a.tracker, hunt.Options{
		Delays: hunt.Delays{
			FlipBack: a.config.Delays.FlipBack.Duration,
			Settle:   a.config.Delays.Settle.Duration,
		},
	})
	return nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) Tracker() *progress.Tracker { return a.tracker }

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Cors(),
		middleware.Logging(a.log),
	)
}

// Start serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if a.host == nil {
		if err := a.Open(); err != nil {
			return err
		}
	}
	a.loadRoutes()

	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.config.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
