package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/legal-quotation/quotation-backend/pkg/apihelpers"
	"github.com/legal-quotation/quotation-backend/pkg/metrics"
	"github.com/legal-quotation/quotation-backend/services/auth-api/apihandlers"
)

var conf AuthApiConfig

func main() {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := userAccountsDBService.Close(ctx); err != nil {
			slog.Error("Error closing DB connection", slog.String("error", err.Error()))
		}
		if smtpClients != nil {
			smtpClients.Close()
		}
	}()

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(authMetrics.GinMiddleware())

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	if conf.GinConfig.ExposeMetrics {
		router.GET("/metrics", gin.WrapH(metrics.Handler(metricsRegistry)))
	}
	root := router.Group("")

	authHandlers := apihandlers.NewHTTPHandler(
		userManagement,
		authMetrics,
		conf.GinConfig.FailureDelay,
	)
	authHandlers.AddAuthAPI(root)
	authHandlers.AddUserManagementAPI(root)

	if conf.GinConfig.DebugMode {
		if err := apihelpers.WriteRoutesToFile(router, "auth-api-routes.txt"); err != nil {
			slog.Warn("could not write routes file", slog.String("error", err.Error()))
		}
	}

	// Start the server
	slog.Info("Starting Auth API on port " + conf.GinConfig.Port)
	if !conf.GinConfig.MTLS.Use {
		err := router.Run(":" + conf.GinConfig.Port)
		if err != nil {
			slog.Error("Exited Auth API", slog.String("error", err.Error()))
			return
		}
	} else {
		// Create tls config for mutual TLS
		tlsConfig, err := apihelpers.LoadTLSConfig(conf.GinConfig.MTLS.CertificatePaths)
		if err != nil {
			slog.Error("Error loading TLS config.", slog.String("error", err.Error()))
			return
		}

		server := &http.Server{
			Addr:              ":" + conf.GinConfig.Port,
			Handler:           router,
			TLSConfig:         tlsConfig,
			ReadHeaderTimeout: 10 * time.Second,
		}

		err = server.ListenAndServeTLS(conf.GinConfig.MTLS.CertificatePaths.ServerCertPath, conf.GinConfig.MTLS.CertificatePaths.ServerKeyPath)
		if err != nil {
			slog.Error("Exited Auth API", slog.String("error", err.Error()))
			return
		}
	}
}
