package payroll

import (
	"math"
	"time"

	"github.com/gistshu/chr/internal/employee"
	payrollerrors "github.com/gistshu/chr/internal/payroll/errors"

	"github.com/google/uuid"
)

const monthLayout = "2006-01"

// Rates adalah konstanta bisnis perhitungan gaji. Tarif asuransi dan
// pengali lembur mengikuti regulasi yang bisa berubah, jadi dimuat
// sebagai konfigurasi dan bukan literal di rumus.
type Rates struct {
	MealAllowance       int64
	TransportAllowance  int64
	FullAttendanceBonus int64
	JobAllowanceAdmin   int64
	JobAllowanceStaff   int64

	// Tarif jam lembur diturunkan dari basis jam bulanan
	MonthlyBaseHours          float64
	WeekdayOvertimeMultiplier float64

	LaborInsuranceRate  float64
	HealthInsuranceRate float64
	WelfareFundRate     float64
	PensionRate         float64

	TaxRate      float64
	TaxThreshold int64
}

func DefaultRates() Rates {
	return Rates{
		MealAllowance:       2400,
		TransportAllowance:  1200,
		FullAttendanceBonus: 1000,
		JobAllowanceAdmin:   5000,
		JobAllowanceStaff:   1000,

		MonthlyBaseHours:          240,
		WeekdayOvertimeMultiplier: 1.33,

		LaborInsuranceRate:  0.02,
		HealthInsuranceRate: 0.015,
		WelfareFundRate:     0.005,
		PensionRate:         0.06,

		TaxRate:      0.05,
		TaxThreshold: 50000,
	}
}

// Facts adalah masukan variabel per (employee, month), dikumpulkan dari
// absensi terverifikasi dan jadwal shift.
type Facts struct {
	WorkDays       int
	OvertimeHours  float64
	FullAttendance bool

	RestDayOvertimePay   int64
	HolidayOvertimePay   int64
	UnusedAnnualLeavePay int64
	OtherBonuses         int64

	SickLeaveDays     int
	PersonalLeaveDays int
	OtherDeductions   int64
}

// Compute menghitung satu record gaji dari fakta pegawai dan bulan.
// Fungsi murni: tidak menyentuh penyimpanan maupun waktu sekarang.
func Compute(emp EmployeeFacts, month string, facts Facts, rates Rates) (*Payroll, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, payrollerrors.ErrInvalidMonthFormat
	}
	if emp.BaseSalary <= 0 {
		return nil, payrollerrors.ErrInvalidBaseSalary
	}

	jobAllowance := rates.JobAllowanceStaff
	if emp.Role == employee.RoleAdmin {
		jobAllowance = rates.JobAllowanceAdmin
	}

	fullAttendanceBonus := int64(0)
	if facts.FullAttendance {
		fullAttendanceBonus = rates.FullAttendanceBonus
	}

	hourlyOvertimeRate := float64(emp.BaseSalary) / rates.MonthlyBaseHours * rates.WeekdayOvertimeMultiplier
	weekdayOvertimePay := int64(math.Floor(facts.OvertimeHours * hourlyOvertimeRate))

	tax := int64(0)
	if emp.BaseSalary > rates.TaxThreshold {
		tax = int64(math.Floor(float64(emp.BaseSalary) * rates.TaxRate))
	}

	pension := int64(0)
	if emp.PensionOptIn {
		pension = int64(math.Floor(float64(emp.BaseSalary) * rates.PensionRate))
	}

	dailyRate := int64(math.Floor(float64(emp.BaseSalary) / 30))
	halfDailyRate := int64(math.Floor(float64(emp.BaseSalary) / 30 / 2))

	p := &Payroll{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Month:      month,

		WorkDays:           facts.WorkDays,
		TotalOvertimeHours: facts.OvertimeHours,

		BaseSalary:          emp.BaseSalary,
		MealAllowance:       rates.MealAllowance,
		FullAttendanceBonus: fullAttendanceBonus,
		JobAllowance:        jobAllowance,

		WeekdayOvertimePay:   weekdayOvertimePay,
		RestDayOvertimePay:   facts.RestDayOvertimePay,
		HolidayOvertimePay:   facts.HolidayOvertimePay,
		UnusedAnnualLeavePay: facts.UnusedAnnualLeavePay,
		OtherBonuses:         facts.OtherBonuses,
		TransportAllowance:   rates.TransportAllowance,

		LaborInsurance:         int64(math.Floor(float64(emp.BaseSalary) * rates.LaborInsuranceRate)),
		HealthInsurance:        int64(math.Floor(float64(emp.BaseSalary) * rates.HealthInsuranceRate)),
		Pension:                pension,
		WelfareFund:            int64(math.Floor(float64(emp.BaseSalary) * rates.WelfareFundRate)),
		Tax:                    tax,
		SickLeaveDeduction:     int64(facts.SickLeaveDays) * halfDailyRate,
		PersonalLeaveDeduction: int64(facts.PersonalLeaveDays) * dailyRate,
		OtherDeductions:        facts.OtherDeductions,
	}

	RecomputeTotals(p)
	return p, nil
}

// RecomputeTotals menurunkan ulang subtotal dan netto dari komponen.
// Wajib dipanggil setelah setiap penulisan field agar tidak ada pembaca
// yang melihat total tidak konsisten.
func RecomputeTotals(p *Payroll) {
	p.SubtotalA = p.BaseSalary + p.MealAllowance + p.FullAttendanceBonus + p.JobAllowance
	p.SubtotalB = p.WeekdayOvertimePay + p.RestDayOvertimePay + p.HolidayOvertimePay +
		p.UnusedAnnualLeavePay + p.OtherBonuses + p.TransportAllowance
	p.SubtotalC = p.LaborInsurance + p.HealthInsurance + p.Pension + p.WelfareFund +
		p.Tax + p.SickLeaveDeduction + p.PersonalLeaveDeduction + p.OtherDeductions

	p.GrossSalary = p.SubtotalA + p.SubtotalB
	p.TotalDeductions = p.SubtotalC
	p.NetSalary = p.GrossSalary - p.TotalDeductions
}

// CheckConsistent memverifikasi invariant total = jumlah komponen.
// Gagal di sini berarti bug logika, bukan kesalahan input.
func CheckConsistent(p *Payroll) error {
	subtotalA := p.BaseSalary + p.MealAllowance + p.FullAttendanceBonus + p.JobAllowance
	subtotalB := p.WeekdayOvertimePay + p.RestDayOvertimePay + p.HolidayOvertimePay +
		p.UnusedAnnualLeavePay + p.OtherBonuses + p.TransportAllowance
	subtotalC := p.LaborInsurance + p.HealthInsurance + p.Pension + p.WelfareFund +
		p.Tax + p.SickLeaveDeduction + p.PersonalLeaveDeduction + p.OtherDeductions

	if p.SubtotalA != subtotalA || p.SubtotalB != subtotalB || p.SubtotalC != subtotalC {
		return payrollerrors.ErrInconsistentTotals
	}
	if p.GrossSalary != subtotalA+subtotalB ||
		p.TotalDeductions != subtotalC ||
		p.NetSalary != p.GrossSalary-p.TotalDeductions {
		return payrollerrors.ErrInconsistentTotals
	}
	return nil
}
