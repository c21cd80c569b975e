package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

func New() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	if strings.ToLower(os.Getenv("STOCKDRAFT_ENV")) == "prod" {
		logger, err = zap.NewProduction(opts...)
	} else {
		logger, err = zap.NewDevelopment(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}
