package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/custdir/internal/config"
	"github.com/jmehdipour/custdir/internal/db"
	httpSrv "github.com/jmehdipour/custdir/internal/http"
	"github.com/jmehdipour/custdir/internal/logger"
	"github.com/jmehdipour/custdir/internal/metrics"
	"github.com/jmehdipour/custdir/internal/repository"
	"github.com/jmehdipour/custdir/internal/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve [port]",
	Short: "Run HTTP server",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	var portArg string
	if len(args) > 0 {
		portArg = args[0]
	}

	cfg, err := config.Load(cfgPath, portArg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.Init(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	mysqlDB, err := db.OpenMySQL(db.MySQLDSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName), mysqlOpts(cfg))
	if err != nil {
		return fmt.Errorf("mysql open: %w", err)
	}
	defer mysqlDB.Close()

	if cfg.Metrics.Enabled {
		if err := metrics.RegisterDBStats(prometheus.DefaultRegisterer, mysqlDB.DB); err != nil {
			lg.Warn("register pool metrics", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := db.NewRedisClient(ctx, db.RedisOpts{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	st := state.New()
	server, err := httpSrv.NewServer(cfg, httpSrv.Deps{
		Customers: repository.NewCustomersRepository(mysqlDB),
		State:     st,
		Redis:     redisClient,
		Logger:    lg,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	addr, err := server.Listen(cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(cfg.Addr()) }()

	lg.Info("application started",
		zap.Int("port", cfg.Port),
		zap.String("addr", addr.String()),
		zap.Time("at", time.Now()),
	)

	// one ping on a pooled connection; failure is fatal
	err = st.Probe(ctx, func(ctx context.Context) error {
		return db.Ping(ctx, mysqlDB, cfg.Pool.PingTimeout)
	})
	if err != nil {
		shutdown(server, lg)
		return fmt.Errorf("startup database check: %w", err)
	}
	lg.Info("database reachable", zap.String("db_host", cfg.DBHost), zap.Int("db_port", cfg.DBPort))

	select {
	case <-ctx.Done():
		lg.Info("signal received, shutting down")
	case err := <-errCh:
		if err != nil {
			lg.Error("http server exited", zap.Error(err))
			return err
		}
	}

	shutdown(server, lg)
	return nil
}

func shutdown(server *httpSrv.Server, lg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Warn("http shutdown", zap.Error(err))
	}
}

func mysqlOpts(cfg config.Config) db.MySQLOpts {
	return db.MySQLOpts{
		MaxOpenConns:    cfg.Pool.MaxOpenConns,
		MaxIdleConns:    cfg.Pool.MaxIdleConns,
		ConnMaxLifetime: cfg.Pool.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Pool.ConnMaxIdleTime,
		PingTimeout:     cfg.Pool.PingTimeout,
	}
}
