package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playforge/tictactoe-online/internal/config"
	"github.com/playforge/tictactoe-online/internal/match"
	"github.com/playforge/tictactoe-online/internal/repository"
	"github.com/playforge/tictactoe-online/internal/repository/storage"
	"github.com/playforge/tictactoe-online/transport/rest"
	"github.com/playforge/tictactoe-online/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage backend")
)

const shutdownGracePeriod = 5 * time.Second

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	rooms, err := newRoomRepository(ctx, log, conf)
	if err != nil {
		return err
	}

	coordinator := match.NewCoordinator(logger, rooms, conf.BoardSize)
	wsServer := websocket.New(logger, coordinator)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsServer.HandleConnection)
	mux.HandleFunc("/ping", rest.PingHandler)

	// no read/write timeouts: /ws connections are long-lived and have their
	// own ping/pong deadlines
	srv := &http.Server{
		Addr:    ":" + conf.Port,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", conf.Port)
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case err = <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer shutdownCancel()

		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		return nil
	}
}

// newRoomRepository - picks the room store backend from config.
func newRoomRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.RoomRepository, error) {
	switch conf.Storage {
	case config.StorageMemory, "":
		return repository.NewMemoryRoomRepository(), nil

	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		go func() {
			<-ctx.Done()
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		}()

		return repository.NewRoomRepository(redisStorage.Connection), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorage, conf.Storage)
	}
}
