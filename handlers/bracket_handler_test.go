package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/services"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(bs services.BracketService, ss services.ScoreService) http.Handler {
	bh := NewBracketHandler(bs)
	sh := NewScoreHandler(ss)
	eh := NewExportHandler(bs, ss)

	r := chi.NewRouter()
	r.Post("/bracket/build", bh.BuildBracket)
	r.Post("/bracket/advance", bh.AdvanceRound)
	r.Post("/match/result", bh.RecordResult)
	r.Post("/match/reschedule", bh.Reschedule)
	r.Get("/match/score", sh.MatchScore)
	r.Route("/bracket/{eventID}", func(r chi.Router) {
		r.Get("/", bh.GetBracket)
		r.Get("/rounds", bh.NumRounds)
		r.Get("/dates", bh.MatchDates)
		r.Get("/panels", bh.PanelGroups)
		r.Get("/results", sh.RoundResults)
		r.Get("/export", eh.ExportBracket)
		r.Get("/progress", bh.GetProgress)
		r.Patch("/progress", bh.UpdateProgress)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func validBuildBody(eventID int) string {
	return fmt.Sprintf(`{
		"eventId": %d,
		"subject": %q,
		"roundStart": "2024-05-01",
		"dayStart": "09:00",
		"dayEnd": "18:00",
		"interval": 600,
		"breakTime": {"start": ["13:00"], "end": ["14:00"]},
		"judgeTeamNum": 2,
		"timeOffset": 3
	}`, eventID, gofakeit.Sentence(5))
}

func TestBuildBracket(t *testing.T) {
	var got services.BuildBracketInput
	bs := &FakeBracketService{
		BuildBracketFunc: func(ctx context.Context, in services.BuildBracketInput) ([]int, error) {
			got = in
			return []int{11, 12, 13}, nil
		},
	}

	rec := do(t, newTestRouter(bs, &FakeScoreService{}), http.MethodPost, "/bracket/build", validBuildBody(7))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		MatchIDs []int `json:"matchIds"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, []int{11, 12, 13}, resp.MatchIDs)

	assert.Equal(t, 7, got.EventID)
	assert.Equal(t, 600, got.Interval)
	assert.Equal(t, 2, got.JudgeTeamNum)
	assert.Equal(t, 3.0, got.TimeOffset)
	assert.Equal(t, []string{"13:00"}, got.BreakTime.Start)
}

func TestBuildBracket_BadBody(t *testing.T) {
	router := newTestRouter(&FakeBracketService{}, &FakeScoreService{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"eventId": 1,`, "badly-formed JSON"},
		{"unknown field", `{"eventId": 1, "placement": true}`, "unknown key"},
		{"wrong type", `{"eventId": "one"}`, "incorrect JSON type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/bracket/build", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestBuildBracket_ValidationErrors(t *testing.T) {
	bs := &FakeBracketService{
		BuildBracketFunc: func(ctx context.Context, in services.BuildBracketInput) ([]int, error) {
			if err := in.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %w", services.ErrValidationFailed, err)
			}
			return nil, nil
		},
	}

	rec := do(t, newTestRouter(bs, &FakeScoreService{}), http.MethodPost, "/bracket/build",
		`{"eventId": 1, "dayStart": "25:00", "dayEnd": "18:00", "judgeTeamNum": 0}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error map[string]string `json:"error"`
	}
	decode(t, rec, &resp)
	assert.Contains(t, resp.Error, "subject")
	assert.Contains(t, resp.Error, "roundStart")
	assert.Contains(t, resp.Error, "dayStart")
	assert.Contains(t, resp.Error, "judgeTeamNum")
	assert.NotContains(t, resp.Error, "dayEnd")
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", services.ErrEventNotFound), http.StatusNotFound},
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrNoParticipants, http.StatusUnprocessableEntity},
		{services.ErrNotEnoughParticipants, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: day end before start", brackets.ErrInvalidScheduleWindow), http.StatusUnprocessableEntity},
		{services.ErrRoundNotComplete, http.StatusConflict},
		{services.ErrRoundAlreadyAdvanced, http.StatusConflict},
		{services.ErrMatchNotReady, http.StatusConflict},
		{services.ErrBracketNotBuilt, http.StatusConflict},
		{services.ErrNoNextRound, http.StatusConflict},
		{services.ErrInvalidWinner, http.StatusBadRequest},
		{fmt.Errorf("%w: date", services.ErrValidationFailed), http.StatusBadRequest},
		{services.ErrBracketInconsistency, http.StatusInternalServerError},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			bs := &FakeBracketService{
				AdvanceRoundFunc: func(ctx context.Context, in services.AdvanceRoundInput) error { return tt.err },
			}
			rec := do(t, newTestRouter(bs, &FakeScoreService{}), http.MethodPost, "/bracket/advance",
				`{"eventId": 1, "completedRound": 1}`)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestServiceErrorMapping_HidesInternalDetails(t *testing.T) {
	bs := &FakeBracketService{
		AdvanceRoundFunc: func(ctx context.Context, in services.AdvanceRoundInput) error {
			return fmt.Errorf("%w: round 2 has 3 winners for 1 slot", services.ErrBracketInconsistency)
		},
	}
	rec := do(t, newTestRouter(bs, &FakeScoreService{}), http.MethodPost, "/bracket/advance", `{"eventId": 1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "3 winners")
}

func TestRecordResult(t *testing.T) {
	winner := 42
	bs := &FakeBracketService{
		RecordResultFunc: func(ctx context.Context, in services.RecordResultInput) (*models.Match, error) {
			m := models.NewMatch(in.EventID, 1, 1)
			m.WinnerID = &winner
			return m, nil
		},
	}

	rec := do(t, newTestRouter(bs, &FakeScoreService{}), http.MethodPost, "/match/result",
		`{"eventId": 3, "matchKey": "1-1", "winnerId": 42}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		OK    bool         `json:"ok"`
		Match models.Match `json:"match"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.OK)
	require.NotNil(t, resp.Match.WinnerID)
	assert.Equal(t, 42, *resp.Match.WinnerID)
	assert.Equal(t, "1-1", resp.Match.Key)
}

func TestGetBracket_Filters(t *testing.T) {
	var (
		gotID     int
		gotFilter services.BracketFilter
	)
	at := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	bs := &FakeBracketService{
		GetBracketFunc: func(ctx context.Context, eventID int, filter services.BracketFilter) ([]*models.Match, error) {
			gotID, gotFilter = eventID, filter
			m := models.NewMatch(eventID, 2, 1)
			m.Schedule = &at
			return []*models.Match{m}, nil
		},
	}
	router := newTestRouter(bs, &FakeScoreService{})

	rec := do(t, router, http.MethodGet, "/bracket/9?round=2&date=2024-05-01&timeOffset=5.5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, gotID)
	require.NotNil(t, gotFilter.Round)
	assert.Equal(t, 2, *gotFilter.Round)
	assert.Equal(t, "2024-05-01", gotFilter.Date)
	assert.Equal(t, 5.5, gotFilter.TimeOffset)

	var matches []models.Match
	decode(t, rec, &matches)
	require.Len(t, matches, 1)
	assert.Equal(t, "2-1", matches[0].Key)
	assert.True(t, matches[0].Schedule.Equal(at))

	for _, target := range []string{"/bracket/abc", "/bracket/0", "/bracket/9?round=x", "/bracket/9?timeOffset=east"} {
		assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, target, "").Code, target)
	}
}

func TestReadViews(t *testing.T) {
	bs := &FakeBracketService{
		NumRoundsFunc: func(ctx context.Context, eventID int) (int, error) { return 3, nil },
		MatchDatesFunc: func(ctx context.Context, eventID int, round *int, timeOffset float64) ([]models.DateCount, error) {
			return []models.DateCount{{Date: "2024-05-01", Count: 2}, {Date: "2024-05-02", Count: 1}}, nil
		},
		PanelGroupsFunc: func(ctx context.Context, eventID int, round int) ([]services.PanelGroup, error) {
			return []services.PanelGroup{{Judges: []int{4, 5}, Matches: []*models.Match{models.NewMatch(eventID, round, 1)}}}, nil
		},
	}
	router := newTestRouter(bs, &FakeScoreService{})

	rec := do(t, router, http.MethodGet, "/bracket/1/rounds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"numRounds": 3}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/bracket/1/dates?round=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"date":"2024-05-01","count":2},{"date":"2024-05-02","count":1}]`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/bracket/1/panels?round=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []services.PanelGroup
	decode(t, rec, &groups)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{4, 5}, groups[0].Judges)
	assert.Equal(t, "2-1", groups[0].Matches[0].Key)

	rec = do(t, router, http.MethodGet, "/bracket/1/panels", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"round"`)
}

func TestProgress(t *testing.T) {
	stored := models.EventProgress{BracketCreated: true, FinishedRound: 1}
	bs := &FakeBracketService{
		GetProgressFunc: func(ctx context.Context, eventID int) (*models.EventProgress, error) {
			if eventID != 1 {
				return nil, services.ErrEventNotFound
			}
			p := stored
			return &p, nil
		},
		UpdateProgressFunc: func(ctx context.Context, eventID int, in services.UpdateProgressInput) (*models.EventProgress, error) {
			if in.BracketFinalized != nil {
				stored.BracketFinalized = *in.BracketFinalized
			}
			if in.FinishedRound != nil {
				stored.FinishedRound = *in.FinishedRound
			}
			p := stored
			return &p, nil
		},
	}
	router := newTestRouter(bs, &FakeScoreService{})

	rec := do(t, router, http.MethodGet, "/bracket/1/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bracketCreated":true,"bracketFinalized":false,"finishedRound":1}`, rec.Body.String())

	rec = do(t, router, http.MethodPatch, "/bracket/1/progress", `{"bracketFinalized": true, "finishedRound": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bracketCreated":true,"bracketFinalized":true,"finishedRound":3}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/bracket/2/progress", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
