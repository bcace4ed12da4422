package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/finassist/finance-service/internal/models"
	"github.com/finassist/finance-service/internal/money"
	"github.com/finassist/finance-service/internal/repository"
	"github.com/finassist/finance-service/internal/service"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// CreateAsset handles asset creation
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Type         string `json:"type"`
		AccountLabel string `json:"account_label"`
		Value        string `json:"value"` // decimal string, e.g. "1500.00"
		Liquid       *bool  `json:"liquid"`
		ReceivedDate string `json:"received_date"`
	}
	if !decode(w, r, &req) {
		return
	}

	valueCents, err := money.ParseAmount(req.Value)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid value: " + err.Error()})
		return
	}
	in := service.AssetInput{
		Type:         req.Type,
		AccountLabel: req.AccountLabel,
		ValueCents:   valueCents,
		Liquid:       true,
	}
	if req.Liquid != nil {
		in.Liquid = *req.Liquid
	}
	if req.ReceivedDate != "" {
		d, err := parseDate(req.ReceivedDate)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid received_date"})
			return
		}
		in.ReceivedDate = &d
	}

	asset, err := h.svc.CreateAsset(owner, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, asset)
}

// ListAssets returns the owner's assets
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	assets, err := h.svc.ListAssets(owner)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

// CreateFutureAsset records an expected inflow
func (h *Handler) CreateFutureAsset(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name         string `json:"name"`
		Amount       string `json:"amount"`
		ExpectedDate string `json:"expected_date"`
	}
	if !decode(w, r, &req) {
		return
	}

	amountCents, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount: " + err.Error()})
		return
	}
	expected, err := parseDate(req.ExpectedDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expected_date"})
		return
	}

	fa, err := h.svc.CreateFutureAsset(owner, req.Name, amountCents, expected)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, fa)
}

// ListFutureAssets returns the owner's expected inflows
func (h *Handler) ListFutureAssets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	inflows, err := h.svc.ListFutureAssets(owner)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inflows)
}

// CreateLiability handles liability creation with schedule generation
func (h *Handler) CreateLiability(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Type              string `json:"type"`
		Total             string `json:"total"`
		InstallmentsTotal int    `json:"installments_total"`
		InstallmentAmount string `json:"installment_amount"`
		Frequency         string `json:"frequency"`
		DueDate           string `json:"due_date"`
		Priority          int    `json:"priority"`
		Description       string `json:"description"`
	}
	if !decode(w, r, &req) {
		return
	}

	totalCents, err := money.ParseAmount(req.Total)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid total: " + err.Error()})
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid due_date"})
		return
	}
	var installmentCents int64
	if req.InstallmentAmount != "" {
		installmentCents, err = money.ParseAmount(req.InstallmentAmount)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid installment_amount: " + err.Error()})
			return
		}
	}

	liability, installments, err := h.svc.CreateLiability(owner, service.LiabilityInput{
		Type:              req.Type,
		TotalCents:        totalCents,
		InstallmentsTotal: req.InstallmentsTotal,
		InstallmentCents:  installmentCents,
		Frequency:         req.Frequency,
		DueDate:           dueDate,
		Priority:          req.Priority,
		Description:       req.Description,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"liability":    liability,
		"installments": installments,
	})
}

// ListLiabilities returns the owner's liabilities
func (h *Handler) ListLiabilities(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	liabilities, err := h.svc.ListLiabilities(owner)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, liabilities)
}

// ListInstallments returns the schedule of one liability
func (h *Handler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	liabilityID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid liability id"})
		return
	}
	installments, err := h.svc.ListInstallments(owner, liabilityID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, installments)
}

// ApplyPayment pays down a liability from an asset
func (h *Handler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	liabilityID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid liability id"})
		return
	}
	var req struct {
		PaymentType string `json:"payment_type"` // installment | full | partial
		Amount      string `json:"amount"`       // required for partial
		Account     string `json:"account"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.PaymentType == "" {
		req.PaymentType = models.PaymentInstallment
	}

	var requestedCents int64
	if req.Amount != "" {
		requestedCents, err = money.ParseAmount(req.Amount)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount: " + err.Error()})
			return
		}
	}

	result, err := h.svc.ApplyPayment(owner, liabilityID, req.PaymentType, requestedCents, req.Account)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ApplyExpense deducts a spending event from an asset
func (h *Handler) ApplyExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount   string `json:"amount"`
		Account  string `json:"account"`
		Date     string `json:"date"`
		Currency string `json:"currency"`
		Merchant string `json:"merchant"`
		Category string `json:"category"`
		Note     string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}

	amountCents, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount: " + err.Error()})
		return
	}
	expense := models.Expense{
		Currency: req.Currency,
		Merchant: req.Merchant,
		Category: req.Category,
		Note:     req.Note,
	}
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
			return
		}
		expense.OccurredAt = d
	}

	result, err := h.svc.ApplyExpense(owner, amountCents, req.Account, expense)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Projection runs the forward cash-flow simulation
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	horizonDays := 0
	if days := r.URL.Query().Get("days"); days != "" {
		parsed, err := strconv.Atoi(days)
		if err != nil || parsed < 0 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid days"})
			return
		}
		horizonDays = parsed
	}

	projection, err := h.svc.Project(owner, horizonDays)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection)
}

// Dashboard returns the owner's net-worth overview
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Dashboard(owner)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Recommendations returns the projection with advice and the key rate
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	horizonDays := 0
	if days := r.URL.Query().Get("days"); days != "" {
		parsed, err := strconv.Atoi(days)
		if err != nil || parsed < 0 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid days"})
			return
		}
		horizonDays = parsed
	}

	rec, err := h.svc.Recommendations(owner, horizonDays)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// CreateChatSession starts a new chat session
func (h *Handler) CreateChatSession(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if !decode(w, r, &req) {
		return
	}

	session, err := h.svc.CreateChatSession(owner, req.Title)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

// ChatHistory returns the messages of one chat session
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	messages, err := h.svc.ChatHistory(owner, mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, chatErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// chatErrorStatus distinguishes a missing session from a failure of the
// extraction backend.
func chatErrorStatus(err error) int {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// Chat routes one natural-language message
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	reply, err := h.svc.Chat(owner, req.SessionID, req.Message)
	if err != nil {
		respondJSON(w, chatErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, reply)
}
