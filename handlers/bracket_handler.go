package handlers

import (
	"net/http"

	"github.com/Dosada05/debate-tournament/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

type progressResponse struct {
	BracketCreated   bool `json:"bracketCreated"`
	BracketFinalized bool `json:"bracketFinalized"`
	FinishedRound    int  `json:"finishedRound"`
}

// BuildBracket godoc
// @Summary Построить сетку события
// @Tags bracket
// @Description Перестраивает сетку заново: перемешивает пул, расставляет bye, назначает судей и расписание первого раунда.
// @Accept json
// @Produce json
// @Param body body services.BuildBracketInput true "Параметры первого раунда"
// @Success 201 {object} map[string]interface{} "Идентификаторы созданных матчей (matchIds)"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации, пустой пул или неверное окно расписания"
// @Failure 429 {object} map[string]string "Слишком много запросов"
// @Failure 500 {object} map[string]string "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /bracket/build [post]
func (h *BracketHandler) BuildBracket(w http.ResponseWriter, r *http.Request) {
	var input services.BuildBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ids, err := h.bracketService.BuildBracket(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matchIds": ids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceRound godoc
// @Summary Перейти к следующему раунду
// @Tags bracket
// @Description Переносит победителей раунда completedRound в следующий раунд, при необходимости заполняет матч за третье место.
// @Accept json
// @Produce json
// @Param body body services.AdvanceRoundInput true "Завершённый раунд и параметры следующего"
// @Success 200 {object} map[string]interface{} "ok"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Failure 409 {object} map[string]string "Раунд не завершён или уже продвинут"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Failure 500 {object} map[string]string "Сетка повреждена"
// @Security BearerAuth
// @Router /bracket/advance [post]
func (h *BracketHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	var input services.AdvanceRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.AdvanceRound(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary Записать победителя матча
// @Tags match
// @Accept json
// @Produce json
// @Param body body services.RecordResultInput true "Ключ матча и победитель"
// @Success 200 {object} map[string]interface{} "ok и обновлённый матч"
// @Failure 400 {object} map[string]string "Победитель не участвует в матче"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч не готов или раунд уже закрыт"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /match/result [post]
func (h *BracketHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.bracketService.RecordResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true, "match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reschedule godoc
// @Summary Перенести матч в конец раунда
// @Tags match
// @Accept json
// @Produce json
// @Param body body services.RescheduleInput true "Ключ матча"
// @Success 200 {object} map[string]interface{} "Матч с новым временем"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "В раунде нет расписания"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /match/reschedule [post]
func (h *BracketHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var input services.RescheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.bracketService.Reschedule(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary Получить матчи сетки
// @Tags bracket
// @Produce json
// @Param eventID path int true "Event ID"
// @Param round query int false "Номер раунда"
// @Param date query string false "День в формате YYYY-MM-DD (в поясе timeOffset)"
// @Param timeOffset query number false "Смещение от UTC в часах"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string "Некорректные параметры"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Router /bracket/{eventID} [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
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

	filter := services.BracketFilter{Round: round, Date: r.URL.Query().Get("date"), TimeOffset: offset}
	matches, err := h.bracketService.GetBracket(r.Context(), eventID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// NumRounds godoc
// @Summary Число раундов сетки
// @Tags bracket
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]int "numRounds"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Router /bracket/{eventID}/rounds [get]
func (h *BracketHandler) NumRounds(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.bracketService.NumRounds(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"numRounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MatchDates godoc
// @Summary Количество матчей по дням
// @Tags bracket
// @Produce json
// @Param eventID path int true "Event ID"
// @Param round query int false "Номер раунда"
// @Param timeOffset query number false "Смещение от UTC в часах"
// @Success 200 {array} models.DateCount
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Router /bracket/{eventID}/dates [get]
func (h *BracketHandler) MatchDates(w http.ResponseWriter, r *http.Request) {
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

	dates, err := h.bracketService.MatchDates(r.Context(), eventID, round, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dates, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PanelGroups godoc
// @Summary Матчи раунда по судейским панелям
// @Tags bracket
// @Produce json
// @Param eventID path int true "Event ID"
// @Param round query int true "Номер раунда"
// @Success 200 {array} services.PanelGroup
// @Failure 400 {object} map[string]string "Не указан раунд"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Router /bracket/{eventID}/panels [get]
func (h *BracketHandler) PanelGroups(w http.ResponseWriter, r *http.Request) {
	eventID, round, ok := eventAndRound(w, r)
	if !ok {
		return
	}

	groups, err := h.bracketService.PanelGroups(r.Context(), eventID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, groups, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetProgress godoc
// @Summary Флаги продвижения сетки
// @Tags bracket
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} progressResponse
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Router /bracket/{eventID}/progress [get]
func (h *BracketHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	progress, err := h.bracketService.GetProgress(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := progressResponse{
		BracketCreated:   progress.BracketCreated,
		BracketFinalized: progress.BracketFinalized,
		FinishedRound:    progress.FinishedRound,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateProgress godoc
// @Summary Обновить флаги продвижения сетки
// @Tags bracket
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body services.UpdateProgressInput true "Изменяемые флаги"
// @Success 200 {object} progressResponse
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /bracket/{eventID}/progress [patch]
func (h *BracketHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateProgressInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	progress, err := h.bracketService.UpdateProgress(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := progressResponse{
		BracketCreated:   progress.BracketCreated,
		BracketFinalized: progress.BracketFinalized,
		FinishedRound:    progress.FinishedRound,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// eventAndRound читает eventID из пути и обязательный параметр round.
func eventAndRound(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	round, err := queryInt(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	if round == nil {
		failedValidationResponse(w, r, map[string]string{"round": "cannot be blank"})
		return 0, 0, false
	}
	return eventID, *round, true
}
