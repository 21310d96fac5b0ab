package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"laundry/cmd"
	httpin "laundry/internal/adapters/in/http"
	"laundry/internal/adapters/out/postgres/customerrepo"
	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/reservationrepo"
	"laundry/internal/adapters/out/rabbit"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
	"laundry/internal/jobs"
	"laundry/internal/pkg/metrics"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrate(gormDB)

	publisher, closePublisher := createPublisher(configs, logger)
	defer closePublisher()

	root := cmd.NewCompositionRoot(configs, gormDB, publisher, defaultCatalog())

	jobManager := jobs.NewJobManager(
		root.CreateReleaseStaleReservationsCommandHandler(),
		root.CreateRemindReadyOrdersCommandHandler(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		AmqpURL:      os.Getenv("AMQP_URL"),
		AmqpExchange: envOr("AMQP_EXCHANGE", "laundry.events"),

		ScanIdempotencyWindow: envDuration("SCAN_IDEMPOTENCY_WINDOW", 30*time.Second),
		ReadyReminderMaxAge:   envDuration("READY_REMINDER_MAX_AGE", 2*time.Hour),

		MinimumWeight:        envFloat("PRICE_MINIMUM_WEIGHT", 10),
		MinimumPrice:         envFloat("PRICE_MINIMUM", 20),
		PricePerPound:        envFloat("PRICE_PER_POUND", 1.50),
		SameDayExtraPerPound: envFloat("PRICE_SAME_DAY_PER_POUND", 0.33),
		SameDayMinimumCharge: envFloat("PRICE_SAME_DAY_MINIMUM", 5),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return d
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("Invalid number in %s: %v", key, err)
	}
	return f
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func mustMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.BagDTO{},
		&orderrepo.MachineAssignmentDTO{},
		&orderrepo.ExtraUsageDTO{},
		&customerrepo.CustomerDTO{},
		&customerrepo.CreditEntryDTO{},
		&reservationrepo.ReservationDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err = db.Exec(reservationrepo.LiveReservationIndex).Error; err != nil {
		log.Fatalf("Failed to create reservation index: %v", err)
	}
}

func createPublisher(configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if configs.AmqpURL == "" {
		log.Warn("AMQP_URL not set, events will be discarded")
		return rabbit.NopPublisher{}, func() {}
	}

	conn, err := amqp.Dial(configs.AmqpURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}

	publisher, err := rabbit.NewPublisher(conn, configs.AmqpExchange, logger)
	if err != nil {
		log.Fatalf("Failed to declare exchange: %v", err)
	}

	return publisher, func() {
		publisher.Close()
		_ = conn.Close()
	}
}

// defaultCatalog lists the extras offered at the counter. Weight-priced
// items carry PerWeightUnit; the rest are fixed-price.
func defaultCatalog() []services.CatalogItem {
	return []services.CatalogItem{
		{ID: "hang-dry", Name: "Hang dry", Price: 5, PerWeightUnit: 15},
		{ID: "stain-treatment", Name: "Stain treatment", Price: 3},
		{ID: "folding-special", Name: "Special folding", Price: 2.5},
	}
}

func startWebServer(root cmd.CompositionRoot, port string) {
	e := echo.New()

	serverMetrics := metrics.NewServerMetrics("api")
	e.Use(httpin.MetricsMiddleware(serverMetrics))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		root.CreateTransitionOrderCommandHandler(),
		root.CreateScanMachineCommandHandler(),
		root.CreateCheckMachineCommandHandler(),
		root.CreateUncheckMachineCommandHandler(),
		root.CreateReleaseMachineCommandHandler(),
		root.CreateAdvanceDryerCommandHandler(),
		root.CreateVerifyOrderStepCommandHandler(),
		root.CreateApplyCreditCommandHandler(),
		root.CreateRefundCreditCommandHandler(),
		root.CreateRecalculateOrderTotalCommandHandler(),
		root.CreateGetActiveOrdersQueryHandler(),
		root.CreateGetOrderReceiptQueryHandler(),
		root.CreateGetCreditHistoryQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
