package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/debate-tournament/repositories"
	"github.com/Dosada05/debate-tournament/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}

	return nil
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing URL parameter: %s", paramName)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid URL parameter %s: must be a positive integer", paramName)
	}
	return id, nil
}

// queryInt читает необязательный целый параметр запроса; nil, если его нет.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return nil, fmt.Errorf("invalid query parameter %s: must be a positive integer", name)
	}
	return &v, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid query parameter %s: must be a number", name)
	}
	return v, nil
}

func requestLogger(r *http.Request) *slog.Logger {
	return slog.Default().With(
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	err := writeJSON(w, status, env, nil)
	if err != nil {
		requestLogger(r).Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	requestLogger(r).Error("internal server error", slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func unprocessableResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, message)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

// validationMessages разворачивает ошибки ozzo в карту поле -> сообщение.
func validationMessages(err error) (map[string]string, bool) {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return nil, false
	}
	out := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		out[field] = fieldErr.Error()
	}
	return out, true
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, repositories.ErrReferenceNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrValidationFailed):
		if fields, ok := validationMessages(err); ok {
			failedValidationResponse(w, r, fields)
			return
		}
		badRequestResponse(w, r, err)

	// Пул и окно расписания: запрос корректен, но выполнить его нельзя
	case errors.Is(err, services.ErrNoParticipants),
		errors.Is(err, services.ErrNotEnoughParticipants),
		errors.Is(err, services.ErrInvalidScheduleWindow):
		unprocessableResponse(w, r, err.Error())

	// Состояние сетки не позволяет операцию
	case errors.Is(err, services.ErrRoundNotComplete),
		errors.Is(err, services.ErrRoundAlreadyAdvanced),
		errors.Is(err, services.ErrMatchNotReady),
		errors.Is(err, services.ErrRoundNotScheduled),
		errors.Is(err, services.ErrNoNextRound),
		errors.Is(err, services.ErrBracketNotBuilt),
		errors.Is(err, repositories.ErrConflict):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrInvalidWinner):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrBracketInconsistency):
		requestLogger(r).Error("bracket inconsistency", slog.Any("error", err))
		message := "stored bracket is inconsistent and cannot be advanced"
		errorResponse(w, r, http.StatusInternalServerError, message)

	default:
		serverErrorResponse(w, r, err)
	}
}
