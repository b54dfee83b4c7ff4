package payrollerrors

import (
	"net/http"

	"github.com/gistshu/chr/internal/shared/apperror"
)

var (
	ErrInvalidMonthFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"base salary must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrUnknownField = apperror.New(
		apperror.CodeInvalidInput,
		"unknown or non-editable payroll field",
		http.StatusBadRequest,
	)
	ErrInvalidFieldValue = apperror.New(
		apperror.CodeInvalidInput,
		"invalid value for payroll field",
		http.StatusBadRequest,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLockedRecord = apperror.New(
		apperror.CodeLockedRecord,
		"payroll record is locked and cannot be edited",
		http.StatusConflict,
	)
	ErrDuplicateMonth = apperror.New(
		apperror.CodeConflict,
		"payroll record already exists for this employee and month",
		http.StatusConflict,
	)
	ErrInconsistentTotals = apperror.New(
		apperror.CodeInconsistentState,
		"payroll totals do not match the sum of their parts",
		http.StatusInternalServerError,
	)
	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeNotFound,
		"payslip is not generated yet",
		http.StatusNotFound,
	)
)
