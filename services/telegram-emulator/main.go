package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/apihelpers"
	"github.com/legal-quotation/quotation-backend/services/telegram-emulator/apihandlers"
)

var conf config

func main() {
	// Start webserver
	router := gin.Default()

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	root := router.Group("")
	apiModule := apihandlers.NewHTTPHandler(conf.BotTokens, conf.MessagesDir)

	apiModule.AddRoutes(root)

	if conf.GinConfig.DebugMode {
		if err := apihelpers.WriteRoutesToFile(router, "telegram-emulator-routes.txt"); err != nil {
			slog.Error("could not write routes to file", slog.String("error", err.Error()))
		}
	}

	slog.Info("Starting Telegram emulator on port " + conf.GinConfig.Port)
	err := router.Run(":" + conf.GinConfig.Port)
	if err != nil {
		slog.Error("Exited Telegram emulator", slog.String("error", err.Error()))
		return
	}
}
