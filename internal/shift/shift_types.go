package shift

import (
	"fmt"
	"strconv"
	"strings"
)

// NoTime adalah sentinel jam untuk tipe shift non-kerja.
const NoTime = "-"

// Working shift types
const (
	TypeMorning = "Morning"
	TypeEvening = "Evening"
	TypeFull    = "Full"
	TypeSplit   = "Split"
)

// Non-working shift types
const (
	TypeRestDay         = "RestDay"
	TypeRegularLeave    = "RegularLeave"
	TypeNationalHoliday = "NationalHoliday"
	TypeIndigenous      = "Indigenous"
	TypeSick            = "Sick"
	TypePersonal        = "Personal"
	TypeComp            = "Comp"
	TypeAnnual          = "Annual"
	TypeMaternity       = "Maternity"
	TypePrenatal        = "Prenatal"
	TypePaternity       = "Paternity"
	TypeInjury          = "Injury"
	TypeFamily          = "Family"
)

type TypeInfo struct {
	Start string
	End   string
}

// Types adalah tabel kanonik jenis shift klinik. Tipe kerja membawa jendela
// jam tetap, tipe non-kerja selalu membawa pasangan sentinel "-".
var Types = map[string]TypeInfo{
	TypeMorning: {Start: "08:00", End: "16:00"},
	TypeEvening: {Start: "14:00", End: "22:00"},
	TypeFull:    {Start: "09:00", End: "18:00"},
	TypeSplit:   {Start: "10:00", End: "20:00"},

	TypeRestDay:         {Start: NoTime, End: NoTime},
	TypeRegularLeave:    {Start: NoTime, End: NoTime},
	TypeNationalHoliday: {Start: NoTime, End: NoTime},
	TypeIndigenous:      {Start: NoTime, End: NoTime},
	TypeSick:            {Start: NoTime, End: NoTime},
	TypePersonal:        {Start: NoTime, End: NoTime},
	TypeComp:            {Start: NoTime, End: NoTime},
	TypeAnnual:          {Start: NoTime, End: NoTime},
	TypeMaternity:       {Start: NoTime, End: NoTime},
	TypePrenatal:        {Start: NoTime, End: NoTime},
	TypePaternity:       {Start: NoTime, End: NoTime},
	TypeInjury:          {Start: NoTime, End: NoTime},
	TypeFamily:          {Start: NoTime, End: NoTime},
}

// IsKnownType melaporkan apakah t ada di tabel jenis shift.
func IsKnownType(t string) bool {
	_, ok := Types[t]
	return ok
}

// IsWorkingType melaporkan apakah t adalah shift kerja (punya jendela jam).
func IsWorkingType(t string) bool {
	info, ok := Types[t]
	return ok && info.Start != NoTime
}

/// MinutesOfDay mengubah "HH:MM" menjadi menit sejak tengah malam.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", hhmm)
	}

	return h*60 + m, nil
}

// DurationMinutes menghitung durasi start..end dalam menit.
// Hasil negatif (end sebelum start) di-clamp ke 0.
func DurationMinutes(start, end string) (int, error) {
	if start == NoTime || end == NoTime || start == "" || end == "" {
		return 0, nil
	}

	startM, err := MinutesOfDay(start)
	if err != nil {
		return 0, err
	}
	endM, err := MinutesOfDay(end)
	if err != nil {
		return 0, err
	}

	d := endM - startM
	if d < 0 {
		d = 0
	}
	return d, nil
}
