package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/finassist/finance-service/internal/ledger"
	"github.com/finassist/finance-service/internal/middleware"
	"github.com/finassist/finance-service/internal/money"
	"github.com/finassist/finance-service/internal/schedule"
	"github.com/finassist/finance-service/internal/service"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps typed domain errors to HTTP status codes.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var insufficient *ledger.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":           insufficient.Error(),
			"available_cents": insufficient.AvailableCents,
			"required_cents":  insufficient.RequiredCents,
		})
	case errors.Is(err, ledger.ErrAssetNotFound),
		errors.Is(err, ledger.ErrLiabilityNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ledger.ErrLiabilityCompleted):
		respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, ledger.ErrMissingPaymentAmount),
		errors.Is(err, ledger.ErrUnknownPaymentType),
		errors.Is(err, money.ErrInvalidFrequency),
		errors.Is(err, schedule.ErrInvalidScheduleParams):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Errorf("Request failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// ownerID pulls the authenticated user from the request context.
func ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Name, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// RequestPasswordReset issues a reset token for an email address.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}

	token, err := h.svc.RequestPasswordReset(req.Email)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"reset_token": token})
}

// ResetPassword applies a new password using a reset token.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.ResetPassword(req.Email, req.Token, req.Password); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
