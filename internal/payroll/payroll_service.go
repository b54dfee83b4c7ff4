package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gistshu/chr/internal/events"
	"github.com/gistshu/chr/internal/messaging/kafka"
	payrollerrors "github.com/gistshu/chr/internal/payroll/errors"
	"github.com/gistshu/chr/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Jumlah bulan lampau yang disintesis dan dikunci oleh History
const historyBackfillMonths = 3

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, month string) ([]PayrollResponse, error)
	Recalculate(ctx context.Context, month string) ([]PayrollResponse, error)
	GetByMonth(ctx context.Context, month string) ([]PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	UpdateField(ctx context.Context, id string, req UpdatePayrollFieldRequest) (PayrollResponse, error)
	Lock(ctx context.Context, id string) (PayrollResponse, error)
	History(ctx context.Context, employeeID string) ([]PayrollResponse, error)
	ExportRegister(ctx context.Context, month string) ([]byte, string, error)
	RequestPayslip(ctx context.Context, id string) error
	GeneratePayslip(ctx context.Context, id string) (string, error)
	DownloadPayslip(ctx context.Context, id string) ([]byte, string, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	rates      Rates
	payslipDir string
	now        func() time.Time
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, rates Rates, payslipDir string) Service {
	return &service{
		db:         db,
		repo:       repo,
		outboxRepo: outboxRepo,
		rates:      rates,
		payslipDir: payslipDir,
		now:        time.Now,
	}
}

func (s *service) Generate(ctx context.Context, month string) ([]PayrollResponse, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, payrollerrors.ErrInvalidMonthFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Idempoten: record yang sudah ada dikembalikan apa adanya,
	// tanpa perhitungan ulang fakta variabel
	existing, err := qtx.FindByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return mapToListResponse(existing), nil
	}

	records, err := s.generateForMonth(ctx, qtx, tx, month)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return mapToListResponse(records), nil
}

func (s *service) generateForMonth(ctx context.Context, qtx Repository, tx *sql.Tx, month string) ([]Payroll, error) {
	employees, err := qtx.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Payroll, 0, len(employees))
	for _, emp := range employees {
		facts, err := qtx.GatherFacts(ctx, emp.ID.String(), month)
		if err != nil {
			return nil, err
		}

		record, err := Compute(emp, month, facts, s.rates)
		if err != nil {
			return nil, err
		}

		if err := qtx.Create(ctx, record); err != nil {
			if isDuplicateMonth(err) {
				return nil, payrollerrors.ErrDuplicateMonth
			}
			return nil, err
		}

		if err := s.enqueueGeneratedEvent(ctx, tx, record); err != nil {
			return nil, err
		}

		records = append(records, *record)
	}

	return records, nil
}

func (s *service) Recalculate(ctx context.Context, month string) ([]PayrollResponse, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, payrollerrors.ErrInvalidMonthFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	records, err := qtx.FindByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		records, err = s.generateForMonth(ctx, qtx, tx, month)
		if err != nil {
			return nil, err
		}

		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return mapToListResponse(records), nil
	}

	// Hanya record yang belum dikunci yang dihitung ulang dari fakta segar
	for i := range records {
		if records[i].IsLocked {
			continue
		}

		emp, err := qtx.FindEmployee(ctx, records[i].EmployeeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		facts, err := qtx.GatherFacts(ctx, emp.ID.String(), month)
		if err != nil {
			return nil, err
		}

		fresh, err := Compute(*emp, month, facts, s.rates)
		if err != nil {
			return nil, err
		}

		fresh.ID = records[i].ID
		fresh.CreatedAt = records[i].CreatedAt
		fresh.PayslipURL = records[i].PayslipURL
		fresh.PayslipGeneratedAt = records[i].PayslipGeneratedAt

		if err := qtx.Update(ctx, fresh); err != nil {
			return nil, err
		}
		records[i] = *fresh
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return mapToListResponse(records), nil
}

func (s *service) GetByMonth(ctx context.Context, month string) ([]PayrollResponse, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, payrollerrors.ErrInvalidMonthFormat
	}

	records, err := s.repo.FindByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(records), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	record, err := s.findRecord(ctx, s.repo, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*record), nil
}

func (s *service) UpdateField(ctx context.Context, id string, req UpdatePayrollFieldRequest) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findRecord(ctx, qtx, id)
	if err != nil {
		return PayrollResponse{}, err
	}

	if record.IsLocked {
		return PayrollResponse{}, payrollerrors.ErrLockedRecord
	}

	if err := applyField(record, req.Field, req.Value); err != nil {
		return PayrollResponse{}, err
	}

	// Total diturunkan ulang sebelum tersimpan; pembaca tidak pernah
	// melihat subtotal yang tidak konsisten
	RecomputeTotals(record)
	if err := CheckConsistent(record); err != nil {
		return PayrollResponse{}, err
	}

	if err := qtx.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*record), nil
}

func (s *service) Lock(ctx context.Context, id string) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findRecord(ctx, qtx, id)
	if err != nil {
		return PayrollResponse{}, err
	}

	if !record.IsLocked {
		record.IsLocked = true
		if err := qtx.Update(ctx, record); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*record), nil
}

func (s *service) History(ctx context.Context, employeeID string) ([]PayrollResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	records, err := qtx.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	existingMonths := make(map[string]bool, len(records))
	for _, r := range records {
		existingMonths[r.Month] = true
	}

	// Bulan lampau yang belum punya record disintesis dan langsung
	// dikunci: arsip payroll tidak boleh berubah setelah tutup bulan
	nowMonth := s.now().UTC()
	for i := 1; i <= historyBackfillMonths; i++ {
		month := nowMonth.AddDate(0, -i, 0).Format(monthLayout)
		if existingMonths[month] {
			continue
		}

		facts, err := qtx.GatherFacts(ctx, employeeID, month)
		if err != nil {
			return nil, err
		}

		record, err := Compute(*emp, month, facts, s.rates)
		if err != nil {
			return nil, err
		}
		record.IsLocked = true

		if err := qtx.Create(ctx, record); err != nil {
			if isDuplicateMonth(err) {
				continue
			}
			return nil, err
		}
	}

	records, err = qtx.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return mapToListResponse(records), nil
}

func (s *service) ExportRegister(ctx context.Context, month string) ([]byte, string, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, "", payrollerrors.ErrInvalidMonthFormat
	}

	records, err := s.repo.FindByMonth(ctx, month)
	if err != nil {
		return nil, "", err
	}

	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, "", err
	}
	employeeByID := make(map[uuid.UUID]EmployeeFacts, len(employees))
	for _, emp := range employees {
		employeeByID[emp.ID] = emp
	}

	body, err := buildRegisterXLSX(month, records, employeeByID)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("payroll-register-%s.xlsx", month)
	return body, filename, nil
}

func (s *service) RequestPayslip(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.findRecord(ctx, qtx, id)
	if err != nil {
		return err
	}

	event := events.PayslipRequestedEvent{
		EventType:   "payslip_requested",
		PayrollID:   record.ID.String(),
		RequestedBy: contextutil.GetActor(ctx),
		OccurredAt:  s.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll",
		AggregateID:   record.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) GeneratePayslip(ctx context.Context, id string) (string, error) {
	record, err := s.findRecord(ctx, s.repo, id)
	if err != nil {
		return "", err
	}

	emp, err := s.repo.FindEmployee(ctx, record.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", payrollerrors.ErrEmployeeNotFound
		}
		return "", err
	}

	body, err := buildPayslipPDF(*emp, *record)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.payslipDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("payslip-%s-%s.pdf", emp.EmployeeNo, record.Month)
	if err := os.WriteFile(filepath.Join(s.payslipDir, filename), body, 0o644); err != nil {
		return "", err
	}

	url := "/files/payslips/" + filename
	generatedAt := s.now().UTC()
	record.PayslipURL = &url
	record.PayslipGeneratedAt = &generatedAt

	if err := s.repo.Update(ctx, record); err != nil {
		return "", err
	}

	return url, nil
}

func (s *service) DownloadPayslip(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.findRecord(ctx, s.repo, id)
	if err != nil {
		return nil, "", err
	}

	if record.PayslipURL == nil || *record.PayslipURL == "" {
		return nil, "", payrollerrors.ErrPayslipNotGenerated
	}

	filename := filepath.Base(*record.PayslipURL)
	body, err := os.ReadFile(filepath.Join(s.payslipDir, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", payrollerrors.ErrPayslipNotGenerated
		}
		return nil, "", err
	}

	return body, filename, nil
}

func (s *service) findRecord(ctx context.Context, repo Repository, id string) (*Payroll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidPayrollID
	}

	record, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *service) enqueueGeneratedEvent(ctx context.Context, tx *sql.Tx, record *Payroll) error {
	event := events.PayrollGeneratedEvent{
		EventType:  "payroll_generated",
		PayrollID:  record.ID.String(),
		EmployeeID: record.EmployeeID.String(),
		Month:      record.Month,
		NetPay:     record.NetSalary,
		OccurredAt: s.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll",
		AggregateID:   record.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollGeneratedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// applyField menulis satu field (nama JSON) pada record. Hanya komponen
// dan fakta yang boleh diedit; subtotal dan netto selalu turunan.
func applyField(p *Payroll, field string, value json.Number) error {
	switch field {
	case "work_days":
		v, err := value.Int64()
		if err != nil || v < 0 {
			return payrollerrors.ErrInvalidFieldValue
		}
		p.WorkDays = int(v)
		return nil
	case "total_overtime_hours":
		v, err := value.Float64()
		if err != nil || v < 0 {
			return payrollerrors.ErrInvalidFieldValue
		}
		p.TotalOvertimeHours = v
		return nil
	}

	moneyFields := map[string]*int64{
		"base_salary":              &p.BaseSalary,
		"meal_allowance":           &p.MealAllowance,
		"full_attendance_bonus":    &p.FullAttendanceBonus,
		"job_allowance":            &p.JobAllowance,
		"weekday_overtime_pay":     &p.WeekdayOvertimePay,
		"rest_day_overtime_pay":    &p.RestDayOvertimePay,
		"holiday_overtime_pay":     &p.HolidayOvertimePay,
		"unused_annual_leave_pay":  &p.UnusedAnnualLeavePay,
		"other_bonuses":            &p.OtherBonuses,
		"transport_allowance":      &p.TransportAllowance,
		"labor_insurance":          &p.LaborInsurance,
		"health_insurance":         &p.HealthInsurance,
		"pension":                  &p.Pension,
		"welfare_fund":             &p.WelfareFund,
		"tax":                      &p.Tax,
		"sick_leave_deduction":     &p.SickLeaveDeduction,
		"personal_leave_deduction": &p.PersonalLeaveDeduction,
		"other_deductions":         &p.OtherDeductions,
	}

	target, ok := moneyFields[field]
	if !ok {
		return payrollerrors.ErrUnknownField
	}

	v, err := value.Int64()
	if err != nil || v < 0 {
		return payrollerrors.ErrInvalidFieldValue
	}
	*target = v
	return nil
}

func isDuplicateMonth(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "payroll_employee_month")
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "payroll_employee_month")
}
