package cmd

import "time"

// Config carries every environment-driven setting of the service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AmqpURL      string
	AmqpExchange string

	// ScanIdempotencyWindow bounds how long a repeated scan of the same
	// machine for the same order is treated as a duplicate.
	ScanIdempotencyWindow time.Duration

	// ReadyReminderMaxAge is how long an order may sit in a ready status
	// before the reminder job re-announces it.
	ReadyReminderMaxAge time.Duration

	// Pricing settings, configured per store.
	MinimumWeight        float64
	MinimumPrice         float64
	PricePerPound        float64
	SameDayExtraPerPound float64
	SameDayMinimumCharge float64
}
