package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/reports"
	"github.com/Dosada05/debate-tournament/scoring"
	"github.com/Dosada05/debate-tournament/services"
)

type ExportHandler struct {
	bracketService services.BracketService
	scoreService   services.ScoreService
}

func NewExportHandler(bs services.BracketService, ss services.ScoreService) *ExportHandler {
	return &ExportHandler{bracketService: bs, scoreService: ss}
}

// ExportBracket godoc
// @Summary Выгрузить сетку в Excel
// @Tags bracket
// @Description Книга .xlsx с листом матчей и листом очков. Без round выгружаются все раунды.
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param eventID path int true "Event ID"
// @Param round query int false "Номер раунда"
// @Param timeOffset query number false "Смещение от UTC в часах для времени матчей"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Некорректные параметры"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Router /bracket/{eventID}/export [get]
func (h *ExportHandler) ExportBracket(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := queryInt(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := queryFloat(r, "timeOffset")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()
	matches, err := h.bracketService.GetBracket(ctx, eventID, services.BracketFilter{Round: round})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	rounds := []int{}
	if round != nil {
		rounds = append(rounds, *round)
	} else {
		total, err := h.bracketService.NumRounds(ctx, eventID)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		for i := 1; i <= total; i++ {
			rounds = append(rounds, i)
		}
	}

	scores := []scoring.MatchScore{}
	for _, n := range rounds {
		roundScores, err := h.scoreService.RoundResults(ctx, eventID, n)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		scores = append(scores, roundScores...)
	}

	// Книга собирается в буфер, чтобы ошибка не оборвала уже начатый ответ.
	var buf bytes.Buffer
	if err := reports.WriteBracketWorkbook(&buf, matches, scores, brackets.Zone(brackets.OffsetHours(offset))); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	filename := fmt.Sprintf("bracket-%d.xlsx", eventID)
	if round != nil {
		filename = fmt.Sprintf("bracket-%d-round-%d.xlsx", eventID, *round)
	}
	w.Header().Set("Content-Type", reports.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		requestLogger(r).Warn("failed to stream workbook", slog.Any("error", err))
	}
}
