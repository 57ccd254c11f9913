package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slayloop/party-server-go/internal/config"
	"github.com/slayloop/party-server-go/internal/dice"
	"github.com/slayloop/party-server-go/internal/game"
	"github.com/slayloop/party-server-go/internal/repository"
	"github.com/slayloop/party-server-go/internal/room"
	"github.com/slayloop/party-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting party server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var results server.ResultSink
	if cfg.Database.DSN != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		repo := repository.NewResultRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare database schema", zap.Error(err))
		}
		results = &resultRecorder{ctx: ctx, repo: repo, logger: logger}
		logger.Info("match-result persistence enabled")
	} else {
		logger.Info("no database configured; match results will not be persisted")
	}

	engine := game.NewEngine(game.Config{
		ActionPointsPerTurn: cfg.Game.ActionPointsPerTurn,
		MinHeroSlots:        cfg.Game.MinHeroSlots,
		InputTimeout:        cfg.Game.InputTimeout,
	}, dice.NewPseudoRoller(time.Now().UnixNano()), logger)
	logger.Info("rules engine initialized",
		zap.Int("action_points_per_turn", engine.Config().ActionPointsPerTurn),
		zap.Duration("input_timeout", engine.Config().InputTimeout),
	)

	roomMgr := room.NewManager(engine, logger)
	logger.Info("room manager initialized")

	hub := server.NewHub(roomMgr, engine, results, logger)

	go func() {
		if serveErr := hub.Serve(cfg.Server.WebSocket); serveErr != nil {
			logger.Error("websocket server error", zap.Error(serveErr))
		}
	}()

	logger.Info("party server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	logger.Info("party server stopped")
}

// resultRecorder bridges the gateway's finish notifications into the
// repository.
type resultRecorder struct {
	ctx    context.Context
	repo   *repository.ResultRepository
	logger *zap.Logger
}

func (r *resultRecorder) GameFinished(roomID, winnerID string, turns int) {
	result := repository.MatchResult{
		RoomID:     roomID,
		WinnerID:   winnerID,
		Turns:      turns,
		FinishedAt: time.Now(),
	}
	if err := r.repo.SaveMatchResult(r.ctx, result); err != nil {
		r.logger.Error("failed to save match result", zap.Error(err))
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
