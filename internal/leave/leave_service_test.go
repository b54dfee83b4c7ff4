package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gistshu/chr/internal/leave"
	leaveerrors "github.com/gistshu/chr/internal/leave/errors"
	"github.com/gistshu/chr/internal/shift"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn               func(tx *sql.Tx) leave.Repository
	createFn               func(ctx context.Context, l *leave.Leave) error
	findAllFn              func(ctx context.Context, filter leave.GetLeavesFilterRequest) ([]leave.Leave, error)
	findByIDFn             func(ctx context.Context, id string) (*leave.Leave, error)
	updateFn               func(ctx context.Context, l *leave.Leave) error
	deleteFn               func(ctx context.Context, id string) error
	employeeExistsFn       func(ctx context.Context, employeeID string) (bool, error)
	hasOverlappingPeriodFn func(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, filter leave.GetLeavesFilterRequest) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	if f.employeeExistsFn != nil {
		return f.employeeExistsFn(ctx, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

type fakeShiftRepository struct {
	upsertFn func(ctx context.Context, s *shift.Shift) error
}

func (f *fakeShiftRepository) WithTx(tx *sql.Tx) shift.Repository {
	return f
}

func (f *fakeShiftRepository) Upsert(ctx context.Context, s *shift.Shift) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, s)
	}
	return nil
}

func (f *fakeShiftRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*shift.Shift, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShiftRepository) FindByMonth(ctx context.Context, monthStart, monthEnd time.Time) ([]shift.Shift, error) {
	return nil, nil
}

func (f *fakeShiftRepository) FindByEmployeeAndMonth(ctx context.Context, employeeID string, monthStart, monthEnd time.Time) ([]shift.Shift, error) {
	return nil, nil
}

func (f *fakeShiftRepository) FindByDate(ctx context.Context, date time.Time) ([]shift.Shift, error) {
	return nil, nil
}

func (f *fakeShiftRepository) Delete(ctx context.Context, employeeID string, date time.Time) error {
	return nil
}

func (f *fakeShiftRepository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	return true, nil
}

type leaveServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   leave.Service
	repo      *fakeLeaveRepository
	shiftRepo *fakeShiftRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	shiftRepo := &fakeShiftRepository{}
	svc := leave.NewService(db, repo, shiftRepo)

	return &leaveServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, shiftRepo: shiftRepo}
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

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("pending request with computed total days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var created *leave.Leave
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			created = l
			return nil
		}

		resp, err := deps.service.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  shift.TypeSick,
			StartDate:  "2023-10-23",
			EndDate:    "2023-10-25",
			Reason:     "flu",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.NotNil(t, created)
		assert.Equal(t, shift.TypeSick, created.LeaveType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlapping period rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  shift.TypePersonal,
			StartDate:  "2023-10-23",
			EndDate:    "2023-10-24",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("working shift type is not a leave kind", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  shift.TypeMorning,
			StartDate:  "2023-10-23",
			EndDate:    "2023-10-23",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrUnknownLeaveType)
	})

	t.Run("reversed date range rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  shift.TypeAnnual,
			StartDate:  "2023-10-25",
			EndDate:    "2023-10-23",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})
}

func TestLeaveService_Approve_WritesScheduleDays(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	employeeID := uuid.New()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
		return &leave.Leave{
			ID:         leaveID,
			EmployeeID: employeeID,
			LeaveType:  shift.TypeSick,
			StartDate:  time.Date(2023, 10, 23, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2023, 10, 25, 0, 0, 0, 0, time.UTC),
			TotalDays:  3,
			Status:     leave.StatusPending,
		}, nil
	}

	var upserted []shift.Shift
	deps.shiftRepo.upsertFn = func(ctx context.Context, s *shift.Shift) error {
		upserted = append(upserted, *s)
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Approve(ctx, leaveID.String())

	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	assert.NotNil(t, resp.ApprovedBy)

	// Satu shift cuti per hari dalam rentang, jam selalu sentinel
	assert.Len(t, upserted, 3)
	for i, s := range upserted {
		assert.Equal(t, employeeID, s.EmployeeID)
		assert.Equal(t, shift.TypeSick, s.Type)
		assert.Equal(t, shift.NoTime, s.StartTime)
		assert.Equal(t, shift.NoTime, s.EndTime)
		assert.Equal(t, time.Date(2023, 10, 23+i, 0, 0, 0, 0, time.UTC), s.Date)
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Approve_OnlyPending(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
		return &leave.Leave{ID: leaveID, Status: leave.StatusRejected}, nil
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.Approve(ctx, leaveID.String())

	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Reject_RequiresReason(t *testing.T) {
	ctx := context.Background()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Reject(ctx, uuid.New().String(), leave.RejectLeaveRequest{})

	assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
		return &leave.Leave{
			ID:         leaveID,
			EmployeeID: uuid.New(),
			LeaveType:  shift.TypePersonal,
			StartDate:  time.Date(2023, 10, 23, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2023, 10, 23, 0, 0, 0, 0, time.UTC),
			Status:     leave.StatusPending,
		}, nil
	}

	var upserts int
	deps.shiftRepo.upsertFn = func(ctx context.Context, s *shift.Shift) error {
		upserts++
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Reject(ctx, leaveID.String(), leave.RejectLeaveRequest{
		RejectionReason: "staffing shortage",
	})

	assert.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)
	assert.Equal(t, "staffing shortage", *resp.RejectionReason)
	// Penolakan tidak menyentuh jadwal
	assert.Equal(t, 0, upserts)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
