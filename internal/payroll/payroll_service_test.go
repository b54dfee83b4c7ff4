package payroll_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gistshu/chr/internal/employee"
	"github.com/gistshu/chr/internal/events"
	"github.com/gistshu/chr/internal/messaging/kafka"
	"github.com/gistshu/chr/internal/payroll"
	payrollerrors "github.com/gistshu/chr/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn         func(tx *sql.Tx) payroll.Repository
	createFn         func(ctx context.Context, p *payroll.Payroll) error
	updateFn         func(ctx context.Context, p *payroll.Payroll) error
	findByIDFn       func(ctx context.Context, id string) (*payroll.Payroll, error)
	findByMonthFn    func(ctx context.Context, month string) ([]payroll.Payroll, error)
	findByEmployeeFn func(ctx context.Context, employeeID string) ([]payroll.Payroll, error)
	listEmployeesFn  func(ctx context.Context) ([]payroll.EmployeeFacts, error)
	findEmployeeFn   func(ctx context.Context, employeeID string) (*payroll.EmployeeFacts, error)
	gatherFactsFn    func(ctx context.Context, employeeID string, month string) (payroll.Facts, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.Payroll, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByMonth(ctx context.Context, month string) ([]payroll.Payroll, error) {
	if f.findByMonthFn != nil {
		return f.findByMonthFn(ctx, month)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByEmployee(ctx context.Context, employeeID string) ([]payroll.Payroll, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) ListEmployees(ctx context.Context) ([]payroll.EmployeeFacts, error) {
	if f.listEmployeesFn != nil {
		return f.listEmployeesFn(ctx)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindEmployee(ctx context.Context, employeeID string) (*payroll.EmployeeFacts, error) {
	if f.findEmployeeFn != nil {
		return f.findEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) GatherFacts(ctx context.Context, employeeID string, month string) (payroll.Facts, error) {
	if f.gatherFactsFn != nil {
		return f.gatherFactsFn(ctx, employeeID, month)
	}
	return payroll.Facts{}, nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    payroll.Service
	repo       *fakePayrollRepository
	outbox     *fakeOutboxRepository
	payslipDir string
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	outbox := &fakeOutboxRepository{}
	payslipDir := t.TempDir()
	svc := payroll.NewService(db, repo, outbox, payroll.DefaultRates(), payslipDir)

	return &payrollServiceDeps{
		db: db, sqlMock: sqlMock, service: svc,
		repo: repo, outbox: outbox, payslipDir: payslipDir,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func testEmployee(baseSalary int64) payroll.EmployeeFacts {
	return payroll.EmployeeFacts{
		ID:         uuid.New(),
		EmployeeNo: "E001",
		FullName:   "Chen",
		Role:       employee.RoleEmployee,
		BaseSalary: baseSalary,
	}
}

func TestPayrollService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("computes a record per employee and enqueues events", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		emp1 := testEmployee(45000)
		emp2 := payroll.EmployeeFacts{
			ID: uuid.New(), EmployeeNo: "E002", FullName: "Lin",
			Role: employee.RoleAdmin, BaseSalary: 120000,
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.listEmployeesFn = func(ctx context.Context) ([]payroll.EmployeeFacts, error) {
			return []payroll.EmployeeFacts{emp1, emp2}, nil
		}
		deps.repo.gatherFactsFn = func(ctx context.Context, employeeID string, month string) (payroll.Facts, error) {
			if employeeID == emp1.ID.String() {
				return payroll.Facts{WorkDays: 22, OvertimeHours: 3, FullAttendance: true}, nil
			}
			return payroll.Facts{WorkDays: 20, FullAttendance: false}, nil
		}

		var created []payroll.Payroll
		deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
			created = append(created, *p)
			return nil
		}
		var published []kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = append(published, event)
			return nil
		}

		resp, err := deps.service.Generate(ctx, "2023-10")

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Len(t, created, 2)
		assert.Equal(t, 748, int(created[0].WeekdayOvertimePay))
		assert.Equal(t, int64(0), created[1].FullAttendanceBonus)
		assert.False(t, created[0].IsLocked)

		assert.Len(t, published, 2)
		assert.Equal(t, events.PayrollGeneratedTopic, published[0].Topic)
		var event events.PayrollGeneratedEvent
		assert.NoError(t, json.Unmarshal(published[0].Payload, &event))
		assert.Equal(t, "2023-10", event.Month)
		assert.Equal(t, created[0].NetSalary, event.NetPay)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("existing month is returned untouched", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		existing, err := payroll.Compute(testEmployee(45000), "2023-10",
			payroll.Facts{WorkDays: 22, FullAttendance: true}, payroll.DefaultRates())
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByMonthFn = func(ctx context.Context, month string) ([]payroll.Payroll, error) {
			return []payroll.Payroll{*existing}, nil
		}
		deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
			t.Fatal("no record should be created for an existing month")
			return nil
		}

		resp, err := deps.service.Generate(ctx, "2023-10")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, existing.ID.String(), resp[0].ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid month rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Generate(ctx, "10-2023")
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidMonthFormat)
	})
}

func TestPayrollService_Recalculate_SkipsLocked(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := testEmployee(45000)
	unlocked, err := payroll.Compute(emp, "2023-10", payroll.Facts{WorkDays: 20}, payroll.DefaultRates())
	assert.NoError(t, err)

	lockedEmp := testEmployee(60000)
	locked, err := payroll.Compute(lockedEmp, "2023-10", payroll.Facts{WorkDays: 20}, payroll.DefaultRates())
	assert.NoError(t, err)
	locked.IsLocked = true

	expectTx(t, deps.sqlMock, true)
	deps.repo.findByMonthFn = func(ctx context.Context, month string) ([]payroll.Payroll, error) {
		return []payroll.Payroll{*unlocked, *locked}, nil
	}
	deps.repo.findEmployeeFn = func(ctx context.Context, employeeID string) (*payroll.EmployeeFacts, error) {
		assert.Equal(t, emp.ID.String(), employeeID)
		return &emp, nil
	}
	deps.repo.gatherFactsFn = func(ctx context.Context, employeeID string, month string) (payroll.Facts, error) {
		// Fakta segar: lembur bertambah sejak generate pertama
		return payroll.Facts{WorkDays: 22, OvertimeHours: 3, FullAttendance: true}, nil
	}

	var updated []payroll.Payroll
	deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
		updated = append(updated, *p)
		return nil
	}

	resp, err := deps.service.Recalculate(ctx, "2023-10")

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Len(t, updated, 1)
	assert.Equal(t, unlocked.ID, updated[0].ID)
	assert.Equal(t, int64(748), updated[0].WeekdayOvertimePay)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_UpdateField(t *testing.T) {
	ctx := context.Background()

	newRecord := func(t *testing.T) *payroll.Payroll {
		t.Helper()
		p, err := payroll.Compute(testEmployee(45000), "2023-10",
			payroll.Facts{WorkDays: 22, FullAttendance: true}, payroll.DefaultRates())
		assert.NoError(t, err)
		return p
	}

	t.Run("edit recomputes totals", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		record := newRecord(t)
		before := record.NetSalary

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return record, nil
		}
		var updated *payroll.Payroll
		deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			updated = p
			return nil
		}

		resp, err := deps.service.UpdateField(ctx, record.ID.String(), payroll.UpdatePayrollFieldRequest{
			Field: "other_bonuses",
			Value: json.Number("2000"),
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2000), resp.OtherBonuses)
		assert.Equal(t, before+2000, resp.NetSalary)
		assert.NotNil(t, updated)
		assert.NoError(t, payroll.CheckConsistent(updated))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("locked record rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		record := newRecord(t)
		record.IsLocked = true

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return record, nil
		}
		deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			t.Fatal("locked record must never be written")
			return nil
		}

		_, err := deps.service.UpdateField(ctx, record.ID.String(), payroll.UpdatePayrollFieldRequest{
			Field: "other_bonuses",
			Value: json.Number("2000"),
		})

		assert.ErrorIs(t, err, payrollerrors.ErrLockedRecord)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("derived and unknown fields rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		record := newRecord(t)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return record, nil
		}

		for _, field := range []string{"net_salary", "subtotal_a", "gross_salary", "nope"} {
			expectTx(t, deps.sqlMock, false)
			_, err := deps.service.UpdateField(ctx, record.ID.String(), payroll.UpdatePayrollFieldRequest{
				Field: field,
				Value: json.Number("1"),
			})
			assert.ErrorIs(t, err, payrollerrors.ErrUnknownField)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative value rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		record := newRecord(t)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return record, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.UpdateField(ctx, record.ID.String(), payroll.UpdatePayrollFieldRequest{
			Field: "tax",
			Value: json.Number("-5"),
		})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidFieldValue)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.UpdateField(ctx, "not-a-uuid", payroll.UpdatePayrollFieldRequest{
			Field: "tax",
			Value: json.Number("0"),
		})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPayrollID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_History_BackfillsLockedMonths(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := testEmployee(45000)
	nowMonth := time.Now().UTC()
	monthMinus1 := nowMonth.AddDate(0, -1, 0).Format("2006-01")
	monthMinus2 := nowMonth.AddDate(0, -2, 0).Format("2006-01")
	monthMinus3 := nowMonth.AddDate(0, -3, 0).Format("2006-01")

	existing, err := payroll.Compute(emp, monthMinus1, payroll.Facts{WorkDays: 22}, payroll.DefaultRates())
	assert.NoError(t, err)

	records := []payroll.Payroll{*existing}

	expectTx(t, deps.sqlMock, true)
	deps.repo.findEmployeeFn = func(ctx context.Context, employeeID string) (*payroll.EmployeeFacts, error) {
		return &emp, nil
	}
	deps.repo.findByEmployeeFn = func(ctx context.Context, employeeID string) ([]payroll.Payroll, error) {
		return records, nil
	}

	var createdMonths []string
	deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
		assert.True(t, p.IsLocked, "backfilled month %s must be locked", p.Month)
		createdMonths = append(createdMonths, p.Month)
		records = append(records, *p)
		return nil
	}

	resp, err := deps.service.History(ctx, emp.ID.String())

	assert.NoError(t, err)
	// Bulan yang sudah punya record tidak dibuat ulang
	assert.ElementsMatch(t, []string{monthMinus2, monthMinus3}, createdMonths)
	assert.Len(t, resp, 3)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_History_UnknownEmployee(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.History(ctx, uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_RequestPayslip(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	record, err := payroll.Compute(testEmployee(45000), "2023-10", payroll.Facts{}, payroll.DefaultRates())
	assert.NoError(t, err)

	expectTx(t, deps.sqlMock, true)
	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return record, nil
	}
	var published *kafka.OutboxEvent
	deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		published = &event
		return nil
	}

	err = deps.service.RequestPayslip(ctx, record.ID.String())

	assert.NoError(t, err)
	assert.NotNil(t, published)
	assert.Equal(t, events.PayslipRequestedTopic, published.Topic)
	assert.Equal(t, record.ID.String(), published.AggregateID)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_GeneratePayslip(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := testEmployee(45000)
	record, err := payroll.Compute(emp, "2023-10", payroll.Facts{WorkDays: 22}, payroll.DefaultRates())
	assert.NoError(t, err)
	record.EmployeeID = emp.ID

	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return record, nil
	}
	deps.repo.findEmployeeFn = func(ctx context.Context, employeeID string) (*payroll.EmployeeFacts, error) {
		return &emp, nil
	}
	var updated *payroll.Payroll
	deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
		updated = p
		return nil
	}

	url, err := deps.service.GeneratePayslip(ctx, record.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, "/files/payslips/payslip-E001-2023-10.pdf", url)
	assert.NotNil(t, updated)
	assert.Equal(t, url, *updated.PayslipURL)
	assert.NotNil(t, updated.PayslipGeneratedAt)

	body, err := os.ReadFile(filepath.Join(deps.payslipDir, "payslip-E001-2023-10.pdf"))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	// Unduhan mengembalikan berkas yang sama
	downloaded, filename, err := deps.service.DownloadPayslip(ctx, record.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, "payslip-E001-2023-10.pdf", filename)
	assert.Equal(t, body, downloaded)
}

func TestPayrollService_DownloadPayslip_NotGenerated(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	record, err := payroll.Compute(testEmployee(45000), "2023-10", payroll.Facts{}, payroll.DefaultRates())
	assert.NoError(t, err)

	deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return record, nil
	}

	_, _, err = deps.service.DownloadPayslip(ctx, record.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotGenerated)
}

func TestPayrollService_ExportRegister(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := testEmployee(45000)
	record, err := payroll.Compute(emp, "2023-10", payroll.Facts{WorkDays: 22}, payroll.DefaultRates())
	assert.NoError(t, err)

	deps.repo.findByMonthFn = func(ctx context.Context, month string) ([]payroll.Payroll, error) {
		return []payroll.Payroll{*record}, nil
	}
	deps.repo.listEmployeesFn = func(ctx context.Context) ([]payroll.EmployeeFacts, error) {
		return []payroll.EmployeeFacts{emp}, nil
	}

	body, filename, err := deps.service.ExportRegister(ctx, "2023-10")

	assert.NoError(t, err)
	assert.Equal(t, "payroll-register-2023-10.xlsx", filename)
	// XLSX adalah arsip ZIP
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))
}
