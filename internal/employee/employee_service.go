package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "github.com/gistshu/chr/internal/employee/errors"
	"github.com/gistshu/chr/internal/events"
	"github.com/gistshu/chr/internal/messaging/kafka"
	"github.com/gistshu/chr/internal/shared/contextutil"
	"github.com/gistshu/chr/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db          *sql.DB
	repo        Repository
	counterRepo counter.Repository
	outboxRepo  kafka.OutboxRepository
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{db: db, repo: repo, counterRepo: counterRepo, outboxRepo: outboxRepo}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	employeeNo, err := counter.NextEmployeeNo(ctx, s.counterRepo)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp := &Employee{
		ID:           uuid.New(),
		EmployeeNo:   employeeNo,
		FullName:     req.FullName,
		Role:         req.Role,
		Department:   req.Department,
		JobTitle:     req.JobTitle,
		Phone:        req.Phone,
		BaseSalary:   req.BaseSalary,
		PensionOptIn: req.PensionOptIn,
		HireDate:     hireDate,
	}

	if err := qtx.Create(ctx, emp); err != nil {
		if isDuplicateEmployeeNo(err) {
			return EmployeeResponse{}, employeeerrors.ErrDuplicateEmployeeNo
		}
		return EmployeeResponse{}, err
	}

	if err := s.enqueueCreatedEvent(ctx, tx, emp); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) enqueueCreatedEvent(ctx context.Context, tx *sql.Tx, emp *Employee) error {
	event := events.EmployeeCreatedEvent{
		EventType:  "employee_created",
		EmployeeID: emp.ID.String(),
		EmployeeNo: emp.EmployeeNo,
		FullName:   emp.FullName,
		Role:       emp.Role,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "employee",
		AggregateID:   emp.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx, strings.TrimSpace(filter.Q))
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		resp = append(resp, mapToResponse(emp))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	var resignationDate *time.Time
	if req.ResignationDate != nil && *req.ResignationDate != "" {
		parsed, err := time.Parse(dateLayout, *req.ResignationDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
		}
		resignationDate = &parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	emp.FullName = req.FullName
	emp.Role = req.Role
	emp.Department = req.Department
	emp.JobTitle = req.JobTitle
	emp.Phone = req.Phone
	emp.BaseSalary = req.BaseSalary
	emp.PensionOptIn = req.PensionOptIn
	emp.ResignationDate = resignationDate

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}

func isDuplicateEmployeeNo(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "employee_no")
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "employee_no")
}

func mapToResponse(emp Employee) EmployeeResponse {
	var resignationDate *string
	if emp.ResignationDate != nil {
		formatted := emp.ResignationDate.Format(dateLayout)
		resignationDate = &formatted
	}

	return EmployeeResponse{
		ID:              emp.ID.String(),
		EmployeeNo:      emp.EmployeeNo,
		FullName:        emp.FullName,
		Role:            emp.Role,
		Department:      emp.Department,
		JobTitle:        emp.JobTitle,
		Phone:           emp.Phone,
		BaseSalary:      emp.BaseSalary,
		PensionOptIn:    emp.PensionOptIn,
		HireDate:        emp.HireDate.Format(dateLayout),
		ResignationDate: resignationDate,
	}
}
