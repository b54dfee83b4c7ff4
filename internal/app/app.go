package app

import (
	"os"
	"time"

	"github.com/gistshu/chr/internal/middleware"
	"github.com/gistshu/chr/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultPayslipDir = "data/payslips"

func BuildApp(router *gin.Engine) error {
	logger := zap.L()

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = defaultPayslipDir
	}
	if err := os.MkdirAll(payslipDir, 0o755); err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(logger))
	// 20 req/detik per IP, burst 40; klinik kecil tidak butuh lebih
	router.Use(middleware.RateLimitByIP(rate.Every(50*time.Millisecond), 40))

	registerModules(router, sqlDB, gormDB, redisClient, payslipDir)

	return nil
}
