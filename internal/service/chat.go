package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finassist/finance-service/internal/integrations/extractor"
	"github.com/finassist/finance-service/internal/ledger"
	"github.com/finassist/finance-service/internal/models"
	"github.com/finassist/finance-service/internal/money"
)

// CreateChatSession starts a new conversation for an owner.
func (s *Service) CreateChatSession(ownerID int64, title string) (*models.ChatSession, error) {
	if title == "" {
		title = "New chat"
	}
	session := &models.ChatSession{
		ID:     uuid.NewString(),
		UserID: ownerID,
		Title:  title,
	}
	if err := s.repo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ChatHistory returns a session's messages, verifying ownership first.
func (s *Service) ChatHistory(ownerID int64, sessionID string) ([]models.ChatMessage, error) {
	if _, err := s.repo.SessionByID(ownerID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.MessagesBySession(sessionID)
}

// Chat routes one natural-language message through the extraction model and
// translates its decision into ledger operations. The extraction service is
// never trusted with the ledger; everything it proposes goes through the
// same validation as the plain API.
func (s *Service) Chat(ownerID int64, sessionID, message string) (*models.ChatReply, error) {
	if _, err := s.repo.SessionByID(ownerID, sessionID); err != nil {
		return nil, err
	}
	history, err := s.repo.MessagesBySession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddMessage(&models.ChatMessage{
		SessionID: sessionID, Role: "user", Content: message,
	}); err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(message, history)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	reply := s.route(ownerID, message, result)

	if err := s.repo.AddMessage(&models.ChatMessage{
		SessionID: sessionID, Role: "assistant", Content: reply.Reply,
	}); err != nil {
		s.log.Errorf("Failed to store assistant reply: %v", err)
	}
	return reply, nil
}

func (s *Service) route(ownerID int64, message string, result *extractor.Result) *models.ChatReply {
	switch {
	case result.Action == "reject" || result.Topic == "not_finance":
		return &models.ChatReply{
			Status: "rejected",
			Reply:  "I can only help with personal finance: expenses, liabilities and payments.",
		}
	case result.Action == "answer":
		reply := result.AnswerDraft
		if reply == "" {
			reply = "Hello! Tell me about an expense, a liability or a payment."
		}
		return &models.ChatReply{Status: "answered", Reply: reply}
	case result.Action == "clarify":
		return clarifyReply(result.Missing)
	case result.Action == "save":
		switch result.Intent {
		case "record_expense":
			return s.chatExpense(ownerID, message, &result.Extracted)
		case "record_liability":
			return s.chatLiability(ownerID, &result.Extracted)
		case "record_payment":
			return s.chatPayment(ownerID, &result.Extracted)
		}
	}
	return &models.ChatReply{
		Status: "clarify",
		Reply:  "I did not quite get that. Could you rephrase?",
	}
}

func clarifyReply(missing []string) *models.ChatReply {
	for _, field := range missing {
		if field == "account" {
			return &models.ChatReply{
				Status: "clarify",
				Reply:  "How did you pay: cash, card or a bank account?",
			}
		}
	}
	if len(missing) == 0 {
		return &models.ChatReply{
			Status: "clarify",
			Reply:  "Could you give me a bit more detail?",
		}
	}
	return &models.ChatReply{
		Status: "clarify",
		Reply:  "I still need: " + strings.Join(missing, ", "),
	}
}

func (s *Service) chatExpense(ownerID int64, message string, ex *extractor.Extracted) *models.ChatReply {
	amountCents := money.FromFloat(ex.Amount)
	if amountCents <= 0 {
		return clarifyReply([]string{"amount"})
	}
	if ex.Account == "" {
		return clarifyReply([]string{"account"})
	}

	expense := models.Expense{
		Currency:   ex.Currency,
		Merchant:   ex.Merchant,
		Category:   ex.Category,
		Note:       ex.Note,
		SourceText: message,
	}
	if ex.Date != "" {
		if t, err := time.Parse("2006-01-02", ex.Date); err == nil {
			expense.OccurredAt = t
		}
	}

	result, err := s.ApplyExpense(ownerID, amountCents, ex.Account, expense)
	if err != nil {
		return ledgerErrorReply(err)
	}
	return &models.ChatReply{
		Status: "saved",
		Reply: fmt.Sprintf("Recorded a %s expense from %s. New balance: %s.",
			money.Format(result.AmountCents), result.AssetLabel, money.Format(result.AssetBalanceCents)),
		Meta: map[string]interface{}{"expense": result},
	}
}

func (s *Service) chatLiability(ownerID int64, ex *extractor.Extracted) *models.ChatReply {
	totalCents := money.FromFloat(ex.LiabilityAmount)
	if totalCents <= 0 {
		return clarifyReply([]string{"liability_amount"})
	}
	dueDate, err := time.Parse("2006-01-02", ex.DueDate)
	if err != nil {
		return clarifyReply([]string{"due_date"})
	}

	liability, installments, err := s.CreateLiability(ownerID, LiabilityInput{
		Type:              ex.LiabilityType,
		TotalCents:        totalCents,
		InstallmentsTotal: ex.InstallmentsTotal,
		InstallmentCents:  money.FromFloat(ex.InstallmentAmount),
		Frequency:         ex.Frequency,
		DueDate:           dueDate,
		Priority:          ex.Priority,
		Description:       ex.Description,
	})
	if err != nil {
		return ledgerErrorReply(err)
	}
	return &models.ChatReply{
		Status: "saved",
		Reply: fmt.Sprintf("Saved your %s: %s in %d installment(s) of %s, first due %s.",
			liability.Type, money.Format(liability.TotalCents), len(installments),
			money.Format(liability.InstallmentCents), liability.NextDueDate.Format("2006-01-02")),
		Meta: map[string]interface{}{"liability": liability},
	}
}

func (s *Service) chatPayment(ownerID int64, ex *extractor.Extracted) *models.ChatReply {
	if ex.LiabilityType == "" {
		return clarifyReply([]string{"liability_type"})
	}
	if ex.Account == "" {
		return clarifyReply([]string{"account"})
	}
	paymentType := ex.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentInstallment
	}

	result, err := s.PayLiabilityByLabel(ownerID, ex.LiabilityType, paymentType, money.FromFloat(ex.Amount), ex.Account)
	if err != nil {
		return ledgerErrorReply(err)
	}

	reply := fmt.Sprintf("Paid %s towards your liability from %s. Remaining: %s.",
		money.Format(result.PaidCents), result.AssetLabel, money.Format(result.RemainingCents))
	if result.Completed {
		reply = fmt.Sprintf("Paid %s from %s. That liability is now fully paid off!",
			money.Format(result.PaidCents), result.AssetLabel)
	}
	return &models.ChatReply{
		Status: "saved",
		Reply:  reply,
		Meta:   map[string]interface{}{"payment": result},
	}
}

// ledgerErrorReply maps typed ledger errors to conversational replies so the
// chat flow degrades into clarification instead of an API error.
func ledgerErrorReply(err error) *models.ChatReply {
	var insufficient *ledger.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		return &models.ChatReply{
			Status: "rejected",
			Reply: fmt.Sprintf("That account only has %s, but %s is needed.",
				money.Format(insufficient.AvailableCents), money.Format(insufficient.RequiredCents)),
		}
	case errors.Is(err, ledger.ErrAssetNotFound):
		return &models.ChatReply{
			Status: "clarify",
			Reply:  "I could not find that account. Which one did you use: cash, card or bank?",
		}
	case errors.Is(err, ledger.ErrLiabilityNotFound):
		return &models.ChatReply{
			Status: "clarify",
			Reply:  "I could not find that liability. What is it called?",
		}
	case errors.Is(err, ledger.ErrLiabilityCompleted):
		return &models.ChatReply{
			Status: "rejected",
			Reply:  "That liability is already fully paid.",
		}
	case errors.Is(err, ledger.ErrMissingPaymentAmount):
		return &models.ChatReply{
			Status: "clarify",
			Reply:  "How much would you like to pay?",
		}
	case errors.Is(err, ledger.ErrUnknownPaymentType):
		return &models.ChatReply{
			Status: "clarify",
			Reply:  "Is that an installment, a full payoff, or a partial payment?",
		}
	default:
		return &models.ChatReply{
			Status: "rejected",
			Reply:  "I could not save that: " + err.Error(),
		}
	}
}
