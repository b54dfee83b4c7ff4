package app

import (
	"database/sql"

	"github.com/gistshu/chr/internal/attendance"
	"github.com/gistshu/chr/internal/employee"
	"github.com/gistshu/chr/internal/leave"
	"github.com/gistshu/chr/internal/messaging/kafka"
	"github.com/gistshu/chr/internal/payroll"
	"github.com/gistshu/chr/internal/shared/counter"
	"github.com/gistshu/chr/internal/shift"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	payslipDir string,
) {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo)
	shiftService := shift.NewService(db, shiftRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, outboxRepo)
	leaveService := leave.NewService(db, leaveRepo, shiftRepo)
	payrollService := payroll.NewService(db, payrollRepo, outboxRepo, payroll.RatesFromEnv(), payslipDir)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	shiftHandler := shift.NewHandler(shiftService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		shift.RegisterRoutes(api, shiftHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rdb)
		leave.RegisterRoutes(api, leaveHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}

	// Slip gaji yang sudah dirender disajikan sebagai berkas statis
	router.Static("/files/payslips", payslipDir)
}
