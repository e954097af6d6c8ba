package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-core/transport/console"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	matchRepo, closeRepo, err := newMatchRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	gameController := tictactoe.NewGameController(tictactoe.WithTransitionListener(func(from, to entity.Phase) {
		log.Info("phase changed", "from", from.String(), "to", to.String())
	}))
	gameManager := usecase.NewGameManager(logger, gameController, matchRepo, conf.SessionID)

	return run(ctx, cancel, log, gameManager, newConsole(logger, conf, gameManager, os.Stdin, os.Stdout))
}

func run(ctx context.Context, cancel context.CancelFunc, log *slog.Logger, gameManager *usecase.GameManager, frontend *console.Console) error {
	// run game manager
	managerErrCh := make(chan error, 1)
	go func() {
		managerErrCh <- gameManager.Run(ctx)
	}()

	if _, err := gameManager.Restore(ctx); err != nil {
		log.Error("could not restore match", "error", err)
	}

	log.Info("Starting console")
	consoleErr := frontend.Start(ctx)

	cancel()
	if err := <-managerErrCh; err != nil && !errors.Is(err, usecase.ErrManagerStopped) {
		return fmt.Errorf("game manager error: %w", err)
	}

	if consoleErr != nil {
		return fmt.Errorf("console error: %w", consoleErr)
	}

	log.Info("Application stopped")

	return nil
}

func newMatchRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.MatchRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis disabled, keeping the match in memory")
		return repository.NewMemoryMatchRepository(), func() {}, nil
	}

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewMatchRepository(redisStorage, conf.Redis.TTL), closeStorage, nil
}

func newConsole(logger *slog.Logger, conf *config.Config, gameManager *usecase.GameManager, in io.Reader, out io.Writer) *console.Console {
	opts := []termenv.OutputOption{}
	if conf.NoColor {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}

	return console.New(logger, gameManager, in, termenv.NewOutput(out, opts...))
}
