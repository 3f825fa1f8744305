package main

import (
	"github.com/unl-extension/metas/backend/internal/server"
	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
		JSON:  util.GetEnvBool("LOG_JSON", false),
	})
	logger.Init(consoleLogger)

	server.Init()
}
