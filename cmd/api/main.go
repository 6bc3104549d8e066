package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/leadwise/coach/backend/internal/config"
	"github.com/leadwise/coach/backend/internal/events"
	"github.com/leadwise/coach/backend/internal/handler"
	coachHandler "github.com/leadwise/coach/backend/internal/handler/coach"
	"github.com/leadwise/coach/backend/internal/model/topic"
	"github.com/leadwise/coach/backend/internal/service/coach"
	"github.com/leadwise/coach/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	topicStore := topic.NewMemoryStore(topic.Seed())

	convStore, closeStore, err := newConversationStore(ctx, cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize conversation store")
	}
	defer closeStore()

	var generator coachHandler.ReplyGenerator
	if cfg.AI.Enabled() {
		coachSvc, err := coach.NewService(ctx, topicStore, cfg.AI, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize coach service, continuing without it")
		} else {
			generator = coachSvc
			log.Info().Str("model", cfg.AI.Model).Msg("coach service initialized")
		}
	} else {
		log.Info().Msg("ark credentials not configured, coach endpoint disabled")
	}

	hub := events.NewHub()
	router := handler.NewRouter(topicStore, convStore, generator, hub, log)

	if err := runServer(ctx, cfg.Server.Addr, router, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func newConversationStore(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (store.Store, func(), error) {
	if cfg.DatabasePath == "" {
		log.Info().Msg("DATABASE_PATH not set, using in-memory conversation store")
		return store.NewMemoryStore(), func() {}, nil
	}

	st, err := store.NewSQLiteStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("path", cfg.DatabasePath).Msg("sqlite conversation store ready")
	return st, func() { _ = st.Close() }, nil
}

func runServer(ctx context.Context, addr string, router http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("coach backend listening")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
