package main

import (
	"context"
	"database/sql"
	"flag"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/dialects/postgresql"

	tariffbot "github.com/bobrihha/tg-sales-bot-tariff"
	"github.com/bobrihha/tg-sales-bot-tariff/bot"
	"github.com/bobrihha/tg-sales-bot-tariff/catalog"
	"github.com/bobrihha/tg-sales-bot-tariff/config"
	"github.com/bobrihha/tg-sales-bot-tariff/notify"
	"github.com/bobrihha/tg-sales-bot-tariff/provider/robokassa"
	"github.com/bobrihha/tg-sales-bot-tariff/services/manualpay"
)

var (
	VERSION = "dev"

	onLoggerDev         = flag.Bool("logger-dev", false, "Enable development logger.")
	onLoggerDebugLevelF = flag.Bool("logger-debug-level", false, "Enable debug level logger.")
)

func main() {
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

	zap.L().Info("Starting tariff sales bot...", zap.String("version", VERSION))
	defer func() { zap.L().Info("Done.") }()

	if err := cfg.ValidateBot(); err != nil {
		zap.L().Panic("Invalid configuration.", zap.Error(err))
	}

	sqlDB := setupPostgres(cfg.PGConn, 0, 5, 5)
	db := reform.NewDB(sqlDB, postgresql.Dialect, reform.NewPrintfLogger(zap.L().Sugar().Debugf))
	store := tariffbot.NewStorePG(db)
	if err := store.InitSchema(); err != nil {
		zap.L().Panic("Failed init schema.", zap.Error(err))
	}

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		zap.L().Panic("Failed open catalog.", zap.Error(err))
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		zap.L().Panic("Failed create bot api.", zap.Error(err))
	}
	zap.L().Info("Telegram - Authorized!", zap.String("username", botAPI.Self.UserName))

	nf := notify.NewTelegram(botAPI, cfg.OperatorIDs)

	// События от вебхук-процесса (оплаты Robokassa) доставляем
	// через этот же бот.
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

	consumer := notify.NewConsumer(ec, nf)
	if err := consumer.Subscribe(); err != nil {
		zap.L().Panic("Failed subscribe notifications.", zap.Error(err))
	}
	defer consumer.Unsubscribe()

	manual := manualpay.NewService(store, nf, cfg.OperatorIDs)

	var rkProvider *robokassa.Provider
	if cfg.RobokassaConfigured() {
		rkProvider = robokassa.NewProvider(
			robokassa.Config{
				MerchantLogin: cfg.RobokassaLogin,
				Password1:     cfg.RobokassaPassword1,
				Password2:     cfg.RobokassaPassword2,
				IsTest:        cfg.RobokassaTestMode,
			},
			store,
			nf,
		)
		zap.L().Info("Robokassa - configured!",
			zap.String("merchant_login", cfg.RobokassaLogin),
			zap.Bool("is_test", cfg.RobokassaTestMode),
		)
	} else {
		zap.L().Warn("Robokassa is not configured, online payments disabled.")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := botAPI.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		botAPI.StopReceivingUpdates()
	}()

	var b *bot.Bot
	if rkProvider != nil {
		b = bot.NewBot(botAPI, store, cat, manual, rkProvider, cfg.OperatorIDs)
	} else {
		b = bot.NewBot(botAPI, store, cat, manual, nil, cfg.OperatorIDs)
	}
	b.Run(ctx, updates)
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
