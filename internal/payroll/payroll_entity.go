package payroll

import (
	"time"

	"github.com/google/uuid"
)

type Payroll struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_employee_month,unique"`

	// Bulan gajian dalam format "YYYY-MM"
	Month string `gorm:"type:varchar(7);not null;index:idx_payroll_employee_month,unique"`

	WorkDays           int     `gorm:"not null;default:0"`
	TotalOvertimeHours float64 `gorm:"type:numeric(6,2);not null;default:0"`

	// Financials disimpan dalam satuan terkecil untuk hindari floating error.

	// Grup A: gaji tetap
	BaseSalary          int64 `gorm:"type:bigint;not null;default:0"`
	MealAllowance       int64 `gorm:"type:bigint;not null;default:0"`
	FullAttendanceBonus int64 `gorm:"type:bigint;not null;default:0"`
	JobAllowance        int64 `gorm:"type:bigint;not null;default:0"`

	// Grup B: komponen variabel
	WeekdayOvertimePay   int64 `gorm:"type:bigint;not null;default:0"`
	RestDayOvertimePay   int64 `gorm:"type:bigint;not null;default:0"`
	HolidayOvertimePay   int64 `gorm:"type:bigint;not null;default:0"`
	UnusedAnnualLeavePay int64 `gorm:"type:bigint;not null;default:0"`
	OtherBonuses         int64 `gorm:"type:bigint;not null;default:0"`
	TransportAllowance   int64 `gorm:"type:bigint;not null;default:0"`

	// Grup C: potongan
	LaborInsurance         int64 `gorm:"type:bigint;not null;default:0"`
	HealthInsurance        int64 `gorm:"type:bigint;not null;default:0"`
	Pension                int64 `gorm:"type:bigint;not null;default:0"`
	WelfareFund            int64 `gorm:"type:bigint;not null;default:0"`
	Tax                    int64 `gorm:"type:bigint;not null;default:0"`
	SickLeaveDeduction     int64 `gorm:"type:bigint;not null;default:0"`
	PersonalLeaveDeduction int64 `gorm:"type:bigint;not null;default:0"`
	OtherDeductions        int64 `gorm:"type:bigint;not null;default:0"`

	SubtotalA       int64 `gorm:"type:bigint;not null;default:0"`
	SubtotalB       int64 `gorm:"type:bigint;not null;default:0"`
	SubtotalC       int64 `gorm:"type:bigint;not null;default:0"`
	GrossSalary     int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	NetSalary       int64 `gorm:"type:bigint;not null;default:0"`

	// Record terkunci adalah arsip bulan lalu dan tidak bisa diedit
	IsLocked bool `gorm:"not null;default:false"`

	PayslipURL         *string
	PayslipGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Payroll) TableName() string {
	return "payroll_records"
}

// EmployeeFacts adalah proyeksi baca dari tabel employees berisi
// fakta yang dibutuhkan Formula Library.
type EmployeeFacts struct {
	ID           uuid.UUID
	EmployeeNo   string
	FullName     string
	Role         string
	BaseSalary   int64
	PensionOptIn bool
}

func (EmployeeFacts) TableName() string {
	return "employees"
}
