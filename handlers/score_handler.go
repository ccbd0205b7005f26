package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/debate-tournament/models"
	"github.com/Dosada05/debate-tournament/services"
)

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(ss services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: ss}
}

// MatchScore godoc
// @Summary Очки матча
// @Tags match
// @Description Оценки судей по пунктам рубрики, голоса зрителей и итог для каждой стороны.
// @Produce json
// @Param eventId query int true "Event ID"
// @Param matchKey query string true "Ключ матча, например 2-1"
// @Success 200 {object} scoring.MatchScore
// @Failure 400 {object} map[string]string "Некорректные параметры"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Router /match/score [get]
func (h *ScoreHandler) MatchScore(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(r.URL.Query().Get("eventId"))
	if err != nil || eventID < 1 {
		badRequestResponse(w, r, errors.New("invalid query parameter eventId: must be a positive integer"))
		return
	}
	matchKey := r.URL.Query().Get("matchKey")
	if _, _, err := models.ParseMatchKey(matchKey); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	score, err := h.scoreService.MatchScore(r.Context(), eventID, matchKey)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, score, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RoundResults godoc
// @Summary Очки всех матчей раунда
// @Tags bracket
// @Produce json
// @Param eventID path int true "Event ID"
// @Param round query int true "Номер раунда"
// @Success 200 {array} scoring.MatchScore
// @Failure 400 {object} map[string]string "Некорректные параметры"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Router /bracket/{eventID}/results [get]
func (h *ScoreHandler) RoundResults(w http.ResponseWriter, r *http.Request) {
	eventID, round, ok := eventAndRound(w, r)
	if !ok {
		return
	}

	scores, err := h.scoreService.RoundResults(r.Context(), eventID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, scores, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
