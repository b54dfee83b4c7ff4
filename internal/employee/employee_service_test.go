package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/gistshu/chr/internal/employee"
	employeeerrors "github.com/gistshu/chr/internal/employee/errors"
	"github.com/gistshu/chr/internal/events"
	"github.com/gistshu/chr/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	withTxFn   func(tx *sql.Tx) employee.Repository
	createFn   func(ctx context.Context, emp *employee.Employee) error
	findAllFn  func(ctx context.Context, query string) ([]employee.Employee, error)
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
	updateFn   func(ctx context.Context, emp *employee.Employee) error
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context, query string) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, query)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, emp *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
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

type employeeServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
	outbox  *fakeOutboxRepository
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	outbox := &fakeOutboxRepository{}
	svc := employee.NewService(db, repo, &fakeCounterRepository{}, outbox)

	return &employeeServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, outbox: outbox}
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

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential employee number and emits event", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var created *employee.Employee
		deps.repo.createFn = func(ctx context.Context, emp *employee.Employee) error {
			created = emp
			return nil
		}
		var published *kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = &event
			return nil
		}

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:   "Chen Mei-Ling",
			Role:       employee.RoleEmployee,
			Department: "Nursing",
			JobTitle:   "Nurse",
			BaseSalary: 45000,
			HireDate:   "2023-01-16",
		})

		assert.NoError(t, err)
		assert.Equal(t, "E001", resp.EmployeeNo)
		assert.NotNil(t, created)
		assert.Equal(t, int64(45000), created.BaseSalary)

		assert.NotNil(t, published)
		assert.Equal(t, events.EmployeeCreatedTopic, published.Topic)
		var event events.EmployeeCreatedEvent
		assert.NoError(t, json.Unmarshal(published.Payload, &event))
		assert.Equal(t, "E001", event.EmployeeNo)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid hire date rejected", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:   "Chen Mei-Ling",
			Role:       employee.RoleEmployee,
			Department: "Nursing",
			JobTitle:   "Nurse",
			BaseSalary: 45000,
			HireDate:   "16/01/2023",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDateFormat)
	})
}

func TestEmployeeService_GetAll_PassesSearchQuery(t *testing.T) {
	ctx := context.Background()
	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	var gotQuery string
	deps.repo.findAllFn = func(ctx context.Context, query string) ([]employee.Employee, error) {
		gotQuery = query
		return []employee.Employee{}, nil
	}

	_, err := deps.service.GetAll(ctx, employee.GetEmployeesFilterRequest{Q: "  mei  "})

	assert.NoError(t, err)
	assert.Equal(t, "mei", gotQuery)
}

func TestEmployeeService_Update_ResignationDate(t *testing.T) {
	ctx := context.Background()
	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	id := uuid.New()
	deps.repo.findByIDFn = func(ctx context.Context, empID string) (*employee.Employee, error) {
		return &employee.Employee{ID: id, EmployeeNo: "E001", FullName: "Chen"}, nil
	}
	var updated *employee.Employee
	deps.repo.updateFn = func(ctx context.Context, emp *employee.Employee) error {
		updated = emp
		return nil
	}

	resignation := "2023-12-31"
	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
		FullName:        "Chen Mei-Ling",
		Role:            employee.RoleEmployee,
		Department:      "Nursing",
		JobTitle:        "Nurse",
		BaseSalary:      47000,
		ResignationDate: &resignation,
	})

	assert.NoError(t, err)
	assert.Equal(t, "2023-12-31", *resp.ResignationDate)
	assert.NotNil(t, updated.ResignationDate)
	assert.Equal(t, int64(47000), updated.BaseSalary)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)

	_, err = deps.service.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
}
