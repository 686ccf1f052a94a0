package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/somsu123/peerpath-final/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Every response carries a
// success flag; the client treats any success:false as terminal for the
// current step.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Next    string `json:"next,omitempty"`
}

// CheckUserEnvelope wraps the existence-probe response.
type CheckUserEnvelope struct {
	Success bool   `json:"success"`
	Exists  bool   `json:"exists"`
	Message string `json:"message,omitempty"`
}

// VerifiedEnvelope wraps a successful OTP verification, the only response
// carrying an identity.
type VerifiedEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	User    *domain.UserIdentity `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Success: false, Message: msg})
}

// httpError maps domain sentinel errors to HTTP status codes and writes the
// uniform failure envelope. No controller failure is fatal to the process.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
