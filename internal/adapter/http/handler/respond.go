package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/ZeyadW/Apartment-Finder/internal/user/entity"
	userusecase "github.com/ZeyadW/Apartment-Finder/internal/user/usecase"
	"go.uber.org/zap"
)

// response is the envelope every endpoint returns. Count is only set for
// list payloads.
type response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data interface{}, length int) {
	writeJSON(w, http.StatusOK, response{Success: true, Count: &length, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: true, Message: message})
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; the cause goes to the log,
// not the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorMessage(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrApartmentNotFound),
		errors.Is(err, domain.ErrDeveloperNotFound),
		errors.Is(err, domain.ErrCompoundNotFound),
		errors.Is(err, domain.ErrAmenityNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, entity.ErrDuplicateEmail),
		errors.Is(err, userusecase.ErrInvalidRole):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, userusecase.ErrAccountDisabled):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, userusecase.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
