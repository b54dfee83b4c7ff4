package payroll

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// buildPayslipPDF merender slip gaji satu halaman A4 untuk satu record.
func buildPayslipPDF(emp EmployeeFacts, p Payroll) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", emp.EmployeeNo, p.Month), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Clinic Payslip", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", p.Month), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(40, 6, "Employee", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", emp.FullName, emp.EmployeeNo), "", 1, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Role", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, emp.Role, "", 1, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Work Days", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%d", p.WorkDays), "", 1, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Overtime Hours", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", p.TotalOvertimeHours), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSection := func(title string, rows [][2]any, subtotalLabel string, subtotal int64) {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(0, 7, title, "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, row := range rows {
			pdf.CellFormat(120, 6, row[0].(string), "LR", 0, "L", false, 0, "")
			pdf.CellFormat(70, 6, formatAmount(row[1].(int64)), "LR", 1, "R", false, 0, "")
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(120, 7, subtotalLabel, "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 7, formatAmount(subtotal), "1", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	writeSection("A. Fixed Salary", [][2]any{
		{"Base Salary", p.BaseSalary},
		{"Meal Allowance", p.MealAllowance},
		{"Full Attendance Bonus", p.FullAttendanceBonus},
		{"Job Allowance", p.JobAllowance},
	}, "Subtotal A", p.SubtotalA)

	writeSection("B. Variable Pay", [][2]any{
		{"Weekday Overtime Pay", p.WeekdayOvertimePay},
		{"Rest Day Overtime Pay", p.RestDayOvertimePay},
		{"Holiday Overtime Pay", p.HolidayOvertimePay},
		{"Unused Annual Leave Pay", p.UnusedAnnualLeavePay},
		{"Other Bonuses", p.OtherBonuses},
		{"Transport Allowance", p.TransportAllowance},
	}, "Subtotal B", p.SubtotalB)

	writeSection("C. Deductions", [][2]any{
		{"Labor Insurance", p.LaborInsurance},
		{"Health Insurance", p.HealthInsurance},
		{"Pension", p.Pension},
		{"Welfare Fund", p.WelfareFund},
		{"Tax", p.Tax},
		{"Sick Leave Deduction", p.SickLeaveDeduction},
		{"Personal Leave Deduction", p.PersonalLeaveDeduction},
		{"Other Deductions", p.OtherDeductions},
	}, "Subtotal C", p.SubtotalC)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Gross Salary (A + B)", "1", 0, "L", false, 0, "")
	pdf.CellFormat(70, 8, formatAmount(p.GrossSalary), "1", 1, "R", false, 0, "")
	pdf.CellFormat(120, 8, "Net Salary (Gross - C)", "1", 0, "L", false, 0, "")
	pdf.CellFormat(70, 8, formatAmount(p.NetSalary), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatAmount menulis nominal dengan pemisah ribuan, mis. 45.000
func formatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := fmt.Sprintf("%d", v)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}
