package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"github.com/svazquez/biblioteca-service/app"
	"github.com/svazquez/biblioteca-service/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
