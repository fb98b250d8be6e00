package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// New builds the application logger. Production config unless
// APP_ENV=development.
func New() *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("APP_ENV") == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return l
}
