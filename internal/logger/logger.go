package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Production JSON output by
// default, console output when APP_ENV=dev.
func New() *zap.Logger {
	var log *zap.Logger
	var err error

	if os.Getenv("APP_ENV") == "dev" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}

	return log
}
