package brackets

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BreakWindow - ежедневный перерыв, смещения от полуночи по местному времени.
type BreakWindow struct {
	Start time.Duration
	End   time.Duration
}

// Window describes where the matches of one round may be placed.
// DayStart, DayEnd and breaks are wall-clock offsets in the UTCOffset zone.
type Window struct {
	Date          time.Time
	DayStart      time.Duration
	DayEnd        time.Duration
	Breaks        []BreakWindow
	UTCOffset     time.Duration
	MatchDuration time.Duration
	Interval      time.Duration
	Panels        int
}

// ParseClock разбирает время вида "HH:MM" в смещение от полуночи.
func ParseClock(value string) (time.Duration, error) {
	hoursStr, minutesStr, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidScheduleWindow, value)
	}
	hours, err := strconv.Atoi(hoursStr)
	if err != nil || hours < 0 || hours > 24 {
		return 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidScheduleWindow, value)
	}
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidScheduleWindow, value)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// Scheduler ведёт курсор времени по матчам раунда. Один слот времени занимают
// Panels матчей подряд (по одному на судейскую панель).
type Scheduler struct {
	w      Window
	day    time.Time
	cursor time.Time
	used   int
}

func NewScheduler(w Window) (*Scheduler, error) {
	if err := validateWindow(w); err != nil {
		return nil, err
	}

	y, m, d := w.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, Zone(w.UTCOffset))

	s := &Scheduler{w: w, day: day, cursor: day.Add(w.DayStart)}
	if _, ok := s.fitWithin(day, s.cursor); !ok {
		return nil, fmt.Errorf("%w: breaks leave no room for a %s match between %s and %s",
			ErrInvalidScheduleWindow, w.MatchDuration, formatClock(w.DayStart), formatClock(w.DayEnd))
	}
	return s, nil
}

func validateWindow(w Window) error {
	switch {
	case w.Date.IsZero():
		return fmt.Errorf("%w: round start date is required", ErrInvalidScheduleWindow)
	case w.Panels < 1:
		return ErrInvalidPanelCount
	case w.MatchDuration <= 0:
		return fmt.Errorf("%w: match duration must be positive", ErrInvalidScheduleWindow)
	case w.Interval < 0:
		return fmt.Errorf("%w: interval must not be negative", ErrInvalidScheduleWindow)
	case w.DayEnd <= w.DayStart:
		return fmt.Errorf("%w: day end %s must be after day start %s",
			ErrInvalidScheduleWindow, formatClock(w.DayEnd), formatClock(w.DayStart))
	case w.DayEnd-w.DayStart < w.MatchDuration:
		return fmt.Errorf("%w: day window %s is shorter than match duration %s",
			ErrInvalidScheduleWindow, w.DayEnd-w.DayStart, w.MatchDuration)
	}
	for i, b := range w.Breaks {
		if b.End <= b.Start {
			return fmt.Errorf("%w: break %d ends before it starts", ErrInvalidScheduleWindow, i+1)
		}
	}
	return nil
}

// Next возвращает время начала очередного матча (в UTC).
func (s *Scheduler) Next() time.Time {
	slot, ok := s.fitWithin(s.day, s.cursor)
	if !ok {
		s.day = s.day.AddDate(0, 0, 1)
		// NewScheduler guarantees that a fresh day always fits.
		slot, _ = s.fitWithin(s.day, s.day.Add(s.w.DayStart))
	}
	s.cursor = slot

	s.used++
	if s.used == s.w.Panels {
		s.used = 0
		s.cursor = s.cursor.Add(s.w.Interval + s.w.MatchDuration)
	}
	return slot.UTC()
}

// fitWithin сдвигает from за все пересекающиеся перерывы дня day и сообщает,
// помещается ли матч до конца дня.
func (s *Scheduler) fitWithin(day, from time.Time) (time.Time, bool) {
	cursor := from
	for moved := true; moved; {
		moved = false
		for _, b := range s.w.Breaks {
			breakStart, breakEnd := day.Add(b.Start), day.Add(b.End)
			if cursor.Before(breakEnd) && cursor.Add(s.w.MatchDuration).After(breakStart) {
				cursor = breakEnd
				moved = true
			}
		}
	}
	return cursor, !cursor.Add(s.w.MatchDuration).After(day.Add(s.w.DayEnd))
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// Zone возвращает фиксированный часовой пояс со смещением offset от UTC.
func Zone(offset time.Duration) *time.Location {
	return time.FixedZone(zoneName(offset), int(offset/time.Second))
}

// OffsetHours переводит смещение в часах (допускаются дробные, например 5.5).
func OffsetHours(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func zoneName(offset time.Duration) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return "UTC" + sign + formatClock(offset)
}
