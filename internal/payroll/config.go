package payroll

import (
	"os"
	"strconv"
)

// RatesFromEnv memuat konstanta bisnis dari environment di atas default
// kebijakan. Tarif regulasi bisa berubah tanpa rebuild rumus.
func RatesFromEnv() Rates {
	rates := DefaultRates()

	rates.MealAllowance = envInt64("PAYROLL_MEAL_ALLOWANCE", rates.MealAllowance)
	rates.TransportAllowance = envInt64("PAYROLL_TRANSPORT_ALLOWANCE", rates.TransportAllowance)
	rates.FullAttendanceBonus = envInt64("PAYROLL_FULL_ATTENDANCE_BONUS", rates.FullAttendanceBonus)
	rates.JobAllowanceAdmin = envInt64("PAYROLL_JOB_ALLOWANCE_ADMIN", rates.JobAllowanceAdmin)
	rates.JobAllowanceStaff = envInt64("PAYROLL_JOB_ALLOWANCE_STAFF", rates.JobAllowanceStaff)

	rates.MonthlyBaseHours = envFloat("PAYROLL_MONTHLY_BASE_HOURS", rates.MonthlyBaseHours)
	rates.WeekdayOvertimeMultiplier = envFloat("PAYROLL_WEEKDAY_OT_MULTIPLIER", rates.WeekdayOvertimeMultiplier)

	rates.LaborInsuranceRate = envFloat("PAYROLL_LABOR_INSURANCE_RATE", rates.LaborInsuranceRate)
	rates.HealthInsuranceRate = envFloat("PAYROLL_HEALTH_INSURANCE_RATE", rates.HealthInsuranceRate)
	rates.WelfareFundRate = envFloat("PAYROLL_WELFARE_FUND_RATE", rates.WelfareFundRate)
	rates.PensionRate = envFloat("PAYROLL_PENSION_RATE", rates.PensionRate)

	rates.TaxRate = envFloat("PAYROLL_TAX_RATE", rates.TaxRate)
	rates.TaxThreshold = envInt64("PAYROLL_TAX_THRESHOLD", rates.TaxThreshold)

	return rates
}

func envInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
