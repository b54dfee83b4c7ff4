package shift

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	shifterrors "github.com/gistshu/chr/internal/shift/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=shift_service.go -destination=mock/shift_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, req AssignShiftRequest) (ShiftResponse, error)
	GetSchedule(ctx context.Context, filter GetScheduleFilterRequest) ([]ShiftResponse, error)
	GetTypes(ctx context.Context) []ShiftTypeResponse
	Remove(ctx context.Context, employeeID, date string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Assign(ctx context.Context, req AssignShiftRequest) (ShiftResponse, error) {
	info, ok := Types[req.Type]
	if !ok {
		return ShiftResponse{}, shifterrors.ErrUnknownShiftType
	}

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidEmployeeID
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return ShiftResponse{}, err
	}
	if !exists {
		return ShiftResponse{}, shifterrors.ErrEmployeeNotFound
	}

	// Jam selalu distempel dari tabel kanonik, bukan dari input klien
	shift := &Shift{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		Date:       date,
		Type:       req.Type,
		StartTime:  info.Start,
		EndTime:    info.End,
	}

	if err := qtx.Upsert(ctx, shift); err != nil {
		return ShiftResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ShiftResponse{}, err
	}

	return mapToResponse(*shift), nil
}

func (s *service) GetSchedule(ctx context.Context, filter GetScheduleFilterRequest) ([]ShiftResponse, error) {
	monthStart, monthEnd, err := MonthBounds(filter.Month)
	if err != nil {
		return nil, shifterrors.ErrInvalidMonthFormat
	}

	var shifts []Shift
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, shifterrors.ErrInvalidEmployeeID
		}
		shifts, err = s.repo.FindByEmployeeAndMonth(ctx, filter.EmployeeID, monthStart, monthEnd)
	} else {
		shifts, err = s.repo.FindByMonth(ctx, monthStart, monthEnd)
	}
	if err != nil {
		return nil, err
	}

	return mapToListResponse(shifts), nil
}

func (s *service) GetTypes(ctx context.Context) []ShiftTypeResponse {
	resp := make([]ShiftTypeResponse, 0, len(Types))
	for name, info := range Types {
		resp = append(resp, ShiftTypeResponse{
			Type:      name,
			StartTime: info.Start,
			EndTime:   info.End,
			Working:   info.Start != NoTime,
		})
	}

	sort.Slice(resp, func(i, j int) bool { return resp[i].Type < resp[j].Type })
	return resp
}

func (s *service) Remove(ctx context.Context, employeeID, date string) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return shifterrors.ErrInvalidEmployeeID
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return shifterrors.ErrInvalidDateFormat
	}

	if _, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, day); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shifterrors.ErrShiftNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, employeeID, day)
}

// MonthBounds mengubah "YYYY-MM" menjadi hari pertama dan terakhir bulan itu.
func MonthBounds(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

func mapToResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:         s.ID.String(),
		EmployeeID: s.EmployeeID.String(),
		Date:       s.Date.Format(dateLayout),
		Type:       s.Type,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
	}
}

func mapToListResponse(shifts []Shift) []ShiftResponse {
	resp := make([]ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		resp = append(resp, mapToResponse(s))
	}
	return resp
}
