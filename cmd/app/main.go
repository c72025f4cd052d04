package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"escrow/cmd"
	httpin "escrow/internal/adapters/in/http"
	"escrow/internal/adapters/out/postgres/disputerepo"
	"escrow/internal/adapters/out/postgres/orderrepo"
	"escrow/internal/adapters/out/postgres/outboxrepo"
	"escrow/internal/adapters/out/postgres/trackingrepo"
	"escrow/internal/adapters/out/postgres/walletrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDB(configs)
	mustMigrate(gormDB)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := cmd.NewCompositionRoot(configs, gormDB)

	jobManager := app.CreateJobManager(logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		WebhookToken:           goDotEnvVariable("WEBHOOK_TOKEN"),
		TransferPendingTimeout: durationMinutes("TRANSFER_PENDING_TIMEOUT_MINUTES", 5),
		DisputeWindow:          durationDays("DISPUTE_WINDOW_DAYS", 7),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func durationMinutes(key string, fallback int) time.Duration {
	return time.Duration(intEnv(key, fallback)) * time.Minute
}

func durationDays(key string, fallback int) time.Duration {
	return time.Duration(intEnv(key, fallback)) * 24 * time.Hour
}

func intEnv(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return value
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	// TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey, which the repositories rely on for
	// idempotency conflict detection.
	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&walletrepo.WalletDTO{},
		&walletrepo.TransactionDTO{},
		&orderrepo.OrderDTO{},
		&trackingrepo.TrackingDTO{},
		&disputerepo.DisputeDTO{},
		&outboxrepo.OutboxDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, configs cmd.Config) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateConfirmOrderCommandHandler(),
		app.CreateShipOrderCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateConfirmDeliveryCommandHandler(),
		app.CreateUpdateDeliveryStageCommandHandler(),
		app.CreateAddLocationUpdateCommandHandler(),
		app.CreateAddDeliveryAttemptCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateOpenDisputeCommandHandler(),
		app.CreateReviewDisputeCommandHandler(),
		app.CreateResolveDisputeCommandHandler(),
		app.CreateCreateWalletCommandHandler(),
		app.CreateTopUpWalletCommandHandler(),
		app.CreateTransferFundsCommandHandler(),
		app.CreateGetWalletBalanceQueryHandler(),
		app.CreateGetTrackingQueryHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
		configs.WebhookToken,
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
