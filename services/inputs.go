package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/models"
	validation "github.com/go-ozzo/ozzo-validation"
)

const dateLayout = "2006-01-02"

var clockRegexp = regexp.MustCompile(`^([01]?\d|2[0-4]):[0-5]\d$`)

// BreakTime - ежедневные перерывы, start[i] и end[i] образуют пару.
type BreakTime struct {
	Start []string `json:"start"`
	End   []string `json:"end"`
}

// ScheduleInput - параметры раунда, общие для построения сетки и перехода раунда.
type ScheduleInput struct {
	Subject      string    `json:"subject"`
	RoundStart   string    `json:"roundStart"` // YYYY-MM-DD
	DayStart     string    `json:"dayStart"`   // HH:MM
	DayEnd       string    `json:"dayEnd"`     // HH:MM
	Interval     int       `json:"interval"`   // seconds
	BreakTime    BreakTime `json:"breakTime"`
	JudgeTeamNum int       `json:"judgeTeamNum"`
	TimeOffset   float64   `json:"timeOffset"` // hours
}

func (in *ScheduleInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Subject, validation.Required, validation.Length(1, 500)),
		validation.Field(&in.RoundStart, validation.Required, validation.By(isDate)),
		validation.Field(&in.DayStart, validation.Required, validation.Match(clockRegexp)),
		validation.Field(&in.DayEnd, validation.Required, validation.Match(clockRegexp)),
		validation.Field(&in.Interval, validation.Min(0)),
		validation.Field(&in.BreakTime, validation.By(validBreaks)),
		validation.Field(&in.JudgeTeamNum, validation.Required, validation.Min(1)),
		validation.Field(&in.TimeOffset, validation.Min(-12.0), validation.Max(14.0)),
	)
}

func isDate(value interface{}) error {
	s, _ := value.(string)
	if _, err := time.Parse(dateLayout, s); err != nil {
		return errors.New("must be a date in YYYY-MM-DD format")
	}
	return nil
}

func validBreaks(value interface{}) error {
	b, ok := value.(BreakTime)
	if !ok {
		return nil
	}
	if len(b.Start) != len(b.End) {
		return errors.New("start and end must have the same length")
	}
	for i := range b.Start {
		if !clockRegexp.MatchString(b.Start[i]) || !clockRegexp.MatchString(b.End[i]) {
			return fmt.Errorf("break %d must use HH:MM", i+1)
		}
	}
	return nil
}

// window собирает окно расписания раунда; длительность матча берётся из события.
func (in *ScheduleInput) window(event *models.Event) (brackets.Window, error) {
	date, err := time.Parse(dateLayout, in.RoundStart)
	if err != nil {
		return brackets.Window{}, fmt.Errorf("%w: round start %q", brackets.ErrInvalidScheduleWindow, in.RoundStart)
	}
	dayStart, err := brackets.ParseClock(in.DayStart)
	if err != nil {
		return brackets.Window{}, err
	}
	dayEnd, err := brackets.ParseClock(in.DayEnd)
	if err != nil {
		return brackets.Window{}, err
	}

	breaks := make([]brackets.BreakWindow, 0, len(in.BreakTime.Start))
	for i := range in.BreakTime.Start {
		start, err := brackets.ParseClock(in.BreakTime.Start[i])
		if err != nil {
			return brackets.Window{}, err
		}
		end, err := brackets.ParseClock(in.BreakTime.End[i])
		if err != nil {
			return brackets.Window{}, err
		}
		breaks = append(breaks, brackets.BreakWindow{Start: start, End: end})
	}

	return brackets.Window{
		Date:          date,
		DayStart:      dayStart,
		DayEnd:        dayEnd,
		Breaks:        breaks,
		UTCOffset:     brackets.OffsetHours(in.TimeOffset),
		MatchDuration: event.MatchDuration(),
		Interval:      time.Duration(in.Interval) * time.Second,
		Panels:        in.JudgeTeamNum,
	}, nil
}

type BuildBracketInput struct {
	EventID int `json:"eventId"`
	ScheduleInput
}

func (in *BuildBracketInput) Validate() error {
	return mergeValidation(
		validation.ValidateStruct(in,
			validation.Field(&in.EventID, validation.Required, validation.Min(1)),
		),
		in.ScheduleInput.Validate(),
	)
}

type AdvanceRoundInput struct {
	EventID        int `json:"eventId"`
	CompletedRound int `json:"completedRound"`
	ScheduleInput
}

func (in *AdvanceRoundInput) Validate() error {
	return mergeValidation(
		validation.ValidateStruct(in,
			validation.Field(&in.EventID, validation.Required, validation.Min(1)),
			validation.Field(&in.CompletedRound, validation.Required, validation.Min(1)),
		),
		in.ScheduleInput.Validate(),
	)
}

type RecordResultInput struct {
	EventID  int    `json:"eventId"`
	MatchKey string `json:"matchKey"`
	WinnerID int    `json:"winnerId"`
}

func (in *RecordResultInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.EventID, validation.Required, validation.Min(1)),
		validation.Field(&in.MatchKey, validation.Required, validation.By(isMatchKey)),
		validation.Field(&in.WinnerID, validation.Required, validation.Min(1)),
	)
}

type RescheduleInput struct {
	EventID  int    `json:"eventId"`
	MatchKey string `json:"matchKey"`
}

func (in *RescheduleInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.EventID, validation.Required, validation.Min(1)),
		validation.Field(&in.MatchKey, validation.Required, validation.By(isMatchKey)),
	)
}

func isMatchKey(value interface{}) error {
	s, _ := value.(string)
	if _, _, err := models.ParseMatchKey(s); err != nil {
		return errors.New("must look like <round>-<index>")
	}
	return nil
}

// UpdateProgressInput - частичное обновление, nil поля не меняются.
type UpdateProgressInput struct {
	BracketCreated   *bool `json:"bracketCreated"`
	BracketFinalized *bool `json:"bracketFinalized"`
	FinishedRound    *int  `json:"finishedRound"`
}

func (in *UpdateProgressInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.FinishedRound, validation.Min(0)),
	)
}

func (in *UpdateProgressInput) apply(p *models.EventProgress) {
	if in.BracketCreated != nil {
		p.BracketCreated = *in.BracketCreated
	}
	if in.BracketFinalized != nil {
		p.BracketFinalized = *in.BracketFinalized
	}
	if in.FinishedRound != nil {
		p.FinishedRound = *in.FinishedRound
	}
}

// BracketFilter - фильтр чтения сетки. Date задаётся в часовом поясе TimeOffset.
type BracketFilter struct {
	Round      *int
	Date       string
	TimeOffset float64
}

// mergeValidation объединяет ошибки нескольких проверок в одну validation.Errors.
func mergeValidation(errs ...error) error {
	merged := validation.Errors{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var fieldErrs validation.Errors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for field, fieldErr := range fieldErrs {
			merged[field] = fieldErr
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}
