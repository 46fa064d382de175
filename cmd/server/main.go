package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"bai-backend/config"
	"bai-backend/internal/handlers"
	"bai-backend/internal/ledger"
	"bai-backend/internal/routes"
	"bai-backend/models"
)

func main() {
	config.LoadEnv()
	config.ConnectDB()
	config.ConnectRedis()
	config.ConnectStorage()

	err := config.DB.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Budget{},
		&models.Income{},
		&models.Expense{},
		&models.Transaction{},
		&models.Receipt{},
		&models.AuditPeriod{},
	)
	if err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	handlers.Ledger = ledger.NewService(
		ledger.NewGormStore(config.DB),
		ledger.NewRedisLocker(config.Locker),
	)

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
