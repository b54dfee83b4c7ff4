package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	attendanceerrors "github.com/gistshu/chr/internal/attendance/errors"
	"github.com/gistshu/chr/internal/events"
	"github.com/gistshu/chr/internal/messaging/kafka"
	"github.com/gistshu/chr/internal/shared/contextutil"
	"github.com/gistshu/chr/internal/shift"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Batas jam kerja mingguan menurut regulasi
const statutoryWeeklyCapMinutes = 46 * 60

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	RecordClockEvent(ctx context.Context, req ClockEventRequest) (AttendanceResponse, error)
	VerifyShift(ctx context.Context, req VerifyShiftRequest) (AttendanceResponse, error)
	UpdateClockTime(ctx context.Context, id string, req UpdateClockTimeRequest) (AttendanceResponse, error)
	UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (AttendanceResponse, error)
	GetByDate(ctx context.Context, filter GetAttendanceFilterRequest) ([]AttendanceResponse, error)
	DailyOverview(ctx context.Context, date string) ([]DailyOverviewRow, error)
	WeeklySummary(ctx context.Context, filter WeeklySummaryFilterRequest) (WeeklySummaryResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{db: db, repo: repo, outboxRepo: outboxRepo}
}

func (s *service) RecordClockEvent(ctx context.Context, req ClockEventRequest) (AttendanceResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	if _, err := shift.MinutesOfDay(req.Time); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTimeFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Jendela shift menentukan status LATE/EARLY_LEAVE; tanpa jadwal tetap ON_TIME
	window, err := qtx.FindShiftWindow(ctx, req.EmployeeID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, err
		}
		window = nil
	}

	record, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, err
		}
		record = nil
	}

	clockTime := req.Time
	switch req.Kind {
	case ClockKindIn:
		if record != nil {
			// Clock-in ulang menimpa jam masuk mentah beserta bukti lokasinya
			record.CheckIn = &clockTime
			record.Status = clockInStatus(window, clockTime)
			applyLocationEvidence(record, req)
			if err := qtx.Update(ctx, record); err != nil {
				return AttendanceResponse{}, err
			}
		} else {
			location := req.LocationType
			if location == "" {
				location = LocationGPS
			}
			record = &Attendance{
				ID:           uuid.New(),
				EmployeeID:   employeeUUID,
				Date:         date,
				CheckIn:      &clockTime,
				Status:       clockInStatus(window, clockTime),
				LocationType: location,
				WifiSSID:     req.WifiSSID,
				GpsLocation:  req.GpsLocation,
				Distance:     req.Distance,
			}
			if err := qtx.Create(ctx, record); err != nil {
				return AttendanceResponse{}, err
			}
		}

	case ClockKindOut:
		if record != nil {
			record.CheckOut = &clockTime
			record.Status = clockOutStatus(window, clockTime, record.Status)
			if err := qtx.Update(ctx, record); err != nil {
				return AttendanceResponse{}, err
			}
		} else {
			// Clock-out tanpa clock-in adalah anomali yang butuh review
			record = &Attendance{
				ID:           uuid.New(),
				EmployeeID:   employeeUUID,
				Date:         date,
				CheckOut:     &clockTime,
				Status:       StatusLate,
				LocationType: LocationGPS,
				WifiSSID:     req.WifiSSID,
				GpsLocation:  req.GpsLocation,
				Distance:     req.Distance,
			}
			if err := qtx.Create(ctx, record); err != nil {
				return AttendanceResponse{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*record, false), nil
}

func (s *service) VerifyShift(ctx context.Context, req VerifyShiftRequest) (AttendanceResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	for _, v := range []string{req.FinalizedIn, req.FinalizedOut} {
		if v == "" {
			continue
		}
		if _, err := shift.MinutesOfDay(v); err != nil {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidTimeFormat
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Tanpa jadwal: baseline 0 dan deteksi lembur ditekan, bukan error
	scheduleMissing := false
	schedDuration := 0
	working := false
	window, err := qtx.FindShiftWindow(ctx, req.EmployeeID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, err
		}
		scheduleMissing = true
	} else {
		working = shift.IsWorkingType(window.Type)
		schedDuration, err = shift.DurationMinutes(window.StartTime, window.EndTime)
		if err != nil {
			return AttendanceResponse{}, err
		}
	}

	record, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, err
		}
		record = nil
	}

	if record == nil && req.FinalizedIn == "" && req.FinalizedOut == "" {
		return AttendanceResponse{}, attendanceerrors.ErrNothingToVerify
	}

	if record == nil {
		// Entri manual admin tanpa clock-in perangkat
		record = &Attendance{
			ID:           uuid.New(),
			EmployeeID:   employeeUUID,
			Date:         date,
			CheckIn:      optional(req.FinalizedIn),
			CheckOut:     optional(req.FinalizedOut),
			Status:       StatusOnTime,
			LocationType: LocationWifi,
			Note:         NoteManualEntry,
		}
		applyVerification(record, req, schedDuration, working, scheduleMissing)
		if err := qtx.Create(ctx, record); err != nil {
			return AttendanceResponse{}, err
		}
	} else {
		applyVerification(record, req, schedDuration, working, scheduleMissing)
		if err := qtx.Update(ctx, record); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := s.enqueueVerifiedEvent(ctx, tx, record); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*record, scheduleMissing), nil
}

// applyVerification menulis jam final dan flag lembur pada record.
// isOvertime hanya true untuk shift kerja yang durasinya terlampaui.
func applyVerification(record *Attendance, req VerifyShiftRequest, schedDuration int, working, scheduleMissing bool) {
	if req.FinalizedIn != "" {
		record.FinalizedIn = optional(req.FinalizedIn)
	}
	if req.FinalizedOut != "" {
		record.FinalizedOut = optional(req.FinalizedOut)
	}

	actualIn := coalesce(record.FinalizedIn, record.CheckIn)
	actualOut := coalesce(record.FinalizedOut, record.CheckOut)
	actualDuration, _ := shift.DurationMinutes(actualIn, actualOut)

	record.IsVerified = true
	record.IsOvertime = working && !scheduleMissing && actualDuration > schedDuration
	if record.IsOvertime {
		record.OvertimeMinutes = actualDuration - schedDuration
	} else {
		record.OvertimeMinutes = 0
	}
}

func (s *service) enqueueVerifiedEvent(ctx context.Context, tx *sql.Tx, record *Attendance) error {
	event := events.AttendanceVerifiedEvent{
		EventType:    "attendance_verified",
		AttendanceID: record.ID.String(),
		EmployeeID:   record.EmployeeID.String(),
		Date:         record.Date.Format(dateLayout),
		IsOvertime:   record.IsOvertime,
		VerifiedBy:   contextutil.GetActor(ctx),
		OccurredAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance",
		AggregateID:   record.ID.String(),
		EventType:     event.EventType,
		Topic:         events.AttendanceVerifiedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) UpdateClockTime(ctx context.Context, id string, req UpdateClockTimeRequest) (AttendanceResponse, error) {
	if _, err := shift.MinutesOfDay(req.Value); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTimeFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	value := req.Value
	if req.Field == "check_in" {
		record.CheckIn = &value
	} else {
		record.CheckOut = &value
	}

	// Anotasi audit ditambahkan tepat sekali, edit berulang tidak menggandakan
	if !strings.Contains(record.Note, NoteAdminEdit) {
		if record.Note == "" {
			record.Note = NoteAdminEdit
		} else {
			record.Note = record.Note + " " + NoteAdminEdit
		}
	}

	if record.LocationType == "" {
		record.LocationType = LocationWifi
	}

	if err := qtx.Update(ctx, record); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*record, false), nil
}

func (s *service) UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (AttendanceResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	record.Note = req.Note
	if err := s.repo.Update(ctx, record); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*record, false), nil
}

func (s *service) GetByDate(ctx context.Context, filter GetAttendanceFilterRequest) ([]AttendanceResponse, error) {
	date, err := time.Parse(dateLayout, filter.Date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}

	records, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		if filter.EmployeeID != "" && r.EmployeeID.String() != filter.EmployeeID {
			continue
		}
		resp = append(resp, mapToResponse(r, false))
	}
	return resp, nil
}

func (s *service) DailyOverview(ctx context.Context, date string) ([]DailyOverviewRow, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}

	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	windows, err := s.repo.FindShiftWindowsByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	windowByEmployee := make(map[uuid.UUID]ShiftWindow, len(windows))
	for _, w := range windows {
		windowByEmployee[w.EmployeeID] = w
	}

	records, err := s.repo.FindByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	recordByEmployee := make(map[uuid.UUID]Attendance, len(records))
	for _, r := range records {
		recordByEmployee[r.EmployeeID] = r
	}

	rows := make([]DailyOverviewRow, 0, len(employees))
	for _, emp := range employees {
		row := DailyOverviewRow{
			EmployeeID: emp.ID.String(),
			EmployeeNo: emp.EmployeeNo,
			FullName:   emp.FullName,
			State:      StateUnscheduled,
		}

		window, scheduled := windowByEmployee[emp.ID]
		if scheduled {
			row.ShiftType = window.Type
			row.ShiftStart = window.StartTime
			row.ShiftEnd = window.EndTime
			row.State = StateScheduledUnclocked
		}

		if record, ok := recordByEmployee[emp.ID]; ok {
			row.CheckIn = record.CheckIn
			row.CheckOut = record.CheckOut
			row.Status = record.Status
			row.LocationType = record.LocationType
			row.Note = record.Note
			row.IsVerified = record.IsVerified
			row.IsOvertime = record.IsOvertime
			row.State = record.State()
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (s *service) WeeklySummary(ctx context.Context, filter WeeklySummaryFilterRequest) (WeeklySummaryResponse, error) {
	weekStart, err := time.Parse(dateLayout, filter.WeekStart)
	if err != nil {
		return WeeklySummaryResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	windows, err := s.repo.FindShiftWindows(ctx, filter.EmployeeID, weekStart, weekEnd)
	if err != nil {
		return WeeklySummaryResponse{}, err
	}

	records, err := s.repo.FindByEmployeeAndRange(ctx, filter.EmployeeID, weekStart, weekEnd)
	if err != nil {
		return WeeklySummaryResponse{}, err
	}
	recordByDate := make(map[string]Attendance, len(records))
	for _, r := range records {
		recordByDate[r.Date.Format(dateLayout)] = r
	}

	summary := WeeklySummaryResponse{
		EmployeeID: filter.EmployeeID,
		WeekStart:  weekStart.Format(dateLayout),
		WeekEnd:    weekEnd.Format(dateLayout),
	}

	var totalMinutes int
	for _, w := range windows {
		if !shift.IsWorkingType(w.Type) {
			continue
		}
		summary.WorkingDays++

		schedMinutes, derr := shift.DurationMinutes(w.StartTime, w.EndTime)
		if derr != nil {
			return WeeklySummaryResponse{}, derr
		}

		// Hari terverifikasi dihitung dari jam aktual, selain itu dari jadwal
		minutes := schedMinutes
		if record, ok := recordByDate[w.Date.Format(dateLayout)]; ok && record.IsVerified {
			actualIn := coalesce(record.FinalizedIn, record.CheckIn)
			actualOut := coalesce(record.FinalizedOut, record.CheckOut)
			if actual, derr := shift.DurationMinutes(actualIn, actualOut); derr == nil {
				minutes = actual
			}
			if record.IsOvertime {
				summary.OvertimeDays++
			}
		}
		totalMinutes += minutes
	}

	summary.TotalHours = float64(totalMinutes) / 60.0
	summary.ExceedsWeeklyCap = totalMinutes > statutoryWeeklyCapMinutes
	return summary, nil
}

// clockInStatus menandai LATE saat masuk setelah jadwal shift kerja dimulai
func clockInStatus(window *ShiftWindow, clockIn string) string {
	if window == nil || !shift.IsWorkingType(window.Type) {
		return StatusOnTime
	}
	in, inErr := shift.MinutesOfDay(clockIn)
	start, startErr := shift.MinutesOfDay(window.StartTime)
	if inErr != nil || startErr != nil {
		return StatusOnTime
	}
	if in > start {
		return StatusLate
	}
	return StatusOnTime
}

// clockOutStatus menandai EARLY_LEAVE saat pulang sebelum jadwal berakhir.
// Status LATE yang sudah ada tidak ditimpa.
func clockOutStatus(window *ShiftWindow, clockOut, current string) string {
	if current == StatusLate {
		return current
	}
	if window == nil || !shift.IsWorkingType(window.Type) {
		return current
	}
	out, outErr := shift.MinutesOfDay(clockOut)
	end, endErr := shift.MinutesOfDay(window.EndTime)
	if outErr != nil || endErr != nil {
		return current
	}
	if out < end {
		return StatusEarlyLeave
	}
	return current
}

func applyLocationEvidence(record *Attendance, req ClockEventRequest) {
	if req.LocationType != "" {
		record.LocationType = req.LocationType
	}
	if req.WifiSSID != "" {
		record.WifiSSID = req.WifiSSID
	}
	if req.GpsLocation != "" {
		record.GpsLocation = req.GpsLocation
	}
	if req.Distance > 0 {
		record.Distance = req.Distance
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func coalesce(primary, fallback *string) string {
	if primary != nil && *primary != "" {
		return *primary
	}
	if fallback != nil {
		return *fallback
	}
	return ""
}

func mapToResponse(a Attendance, scheduleMissing bool) AttendanceResponse {
	return AttendanceResponse{
		ID:              a.ID.String(),
		EmployeeID:      a.EmployeeID.String(),
		Date:            a.Date.Format(dateLayout),
		CheckIn:         a.CheckIn,
		CheckOut:        a.CheckOut,
		FinalizedIn:     a.FinalizedIn,
		FinalizedOut:    a.FinalizedOut,
		Status:          a.Status,
		LocationType:    a.LocationType,
		WifiSSID:        a.WifiSSID,
		GpsLocation:     a.GpsLocation,
		Distance:        a.Distance,
		Note:            a.Note,
		IsVerified:      a.IsVerified,
		IsOvertime:      a.IsOvertime,
		OvertimeMinutes: a.OvertimeMinutes,
		State:           a.State(),
		ScheduleMissing: scheduleMissing,
	}
}
