package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo"
	echo_middleware "github.com/labstack/echo/middleware"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/dialects/postgresql"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
	"github.com/bobrihha/tg-sales-bot-tariff/config"
	"github.com/bobrihha/tg-sales-bot-tariff/httputils"
	"github.com/bobrihha/tg-sales-bot-tariff/notify"
	"github.com/bobrihha/tg-sales-bot-tariff/provider/robokassa"
)

var (
	VERSION = "dev"

	onLoggerDev         = flag.Bool("logger-dev", false, "Enable development logger.")
	onLoggerDebugLevelF = flag.Bool("logger-debug-level", false, "Enable debug level logger.")
)

func main() {
	var wg sync.WaitGroup
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		defaultLogger("INFO")
		zap.L().Panic("Failed load config.", zap.Error(err))
	}
	level := cfg.LogLevel
	if *onLoggerDebugLevelF {
		level = "DEBUG"
	}
	defaultLogger(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zap.L().Info("Starting payment webhook service...", zap.String("version", VERSION))
	defer func() { zap.L().Info("Done.") }()

	if err := cfg.ValidateWebhook(); err != nil {
		zap.L().Panic("Invalid configuration.", zap.Error(err))
	}

	sqlDB := setupPostgres(cfg.PGConn, 0, 5, 5)
	db := reform.NewDB(sqlDB, postgresql.Dialect, reform.NewPrintfLogger(zap.L().Sugar().Debugf))
	if _, err := db.Exec("SELECT version();"); err != nil {
		zap.L().Panic("Failed to check version to PostgreSQL.", zap.Error(err))
	}
	store := tariffbot.NewStorePG(db)
	if err := store.InitSchema(); err != nil {
		zap.L().Panic("Failed init schema.", zap.Error(err))
	}

	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		zap.L().Panic("Failed connect to NATS.", zap.Error(err))
	}
	defer nc.Close()
	ec, err := nats.NewEncodedConn(nc, nats.JSON_ENCODER)
	if err != nil {
		zap.L().Panic("Failed create encoded conn.", zap.Error(err))
	}
	defer ec.Close()
	zap.L().Info("NATS - Connected!", zap.String("url", cfg.NatsURL))

	publisher := notify.NewPublisher(ec)

	rkProvider := robokassa.NewProvider(
		robokassa.Config{
			MerchantLogin: cfg.RobokassaLogin,
			Password1:     cfg.RobokassaPassword1,
			Password2:     cfg.RobokassaPassword2,
			IsTest:        cfg.RobokassaTestMode,
		},
		store,
		publisher,
	)

	e := echo.New()
	e.Use(echo_middleware.Recover())
	e.Use(echo_middleware.Logger())
	e.Use(echo_middleware.BodyLimit("64K"))

	e.Any("/payment/result", rkProvider.ResultHandler())
	e.GET("/payment/success", rkProvider.SuccessHandler())
	e.GET("/payment/fail", rkProvider.FailHandler())
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(httputils.MetricsMux()))

	wg.Add(1)
	go func() {
		defer wg.Done()
		zap.L().Info("Start payment webhook server.",
			zap.String("address", ":"+cfg.WebPort),
			zap.Strings("paths", []string{
				"/payment/result",
				"/payment/success",
				"/payment/fail",
			}),
		)
		if err := e.Start(":" + cfg.WebPort); err != nil && err != http.ErrServerClosed {
			zap.L().Error("Failed run webhook server.", zap.Error(err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Failed shutdown webhook server.", zap.Error(err))
		}
	}()
	wg.Wait()
}

// Configure configure zap logger.
//
// Available values of level:
// - DEBUG
// - INFO
// - WARN
// - ERROR
// - DPANIC
// - PANIC
// - FATAL
func defaultLogger(levelSet string) {
	level := zapcore.InfoLevel
	if err := level.Set(levelSet); err != nil {
		panic(err)
	}
	var config zap.Config
	if *onLoggerDev {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level.SetLevel(level)
	l, err := config.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(l)
	zap.RedirectStdLog(l.Named("stdlog"))
}

func setupPostgres(conn string, maxLifetime time.Duration, maxOpen, maxIdle int) *sql.DB {
	sqlDB, err := sql.Open("postgres", conn)
	if err != nil {
		zap.L().Panic("Failed to connect to PostgreSQL.", zap.Error(err))
	}
	sqlDB.SetConnMaxLifetime(maxLifetime)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if err = sqlDB.Ping(); err != nil {
		zap.L().Panic("Failed to connect ping PostgreSQL.", zap.Error(err))
	}
	zap.L().Info("Postgres - Connected!")

	return sqlDB
}
