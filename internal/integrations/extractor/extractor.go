// Package extractor is the boundary to the natural-language extraction
// service: an opaque text-to-structured-fields model behind an
// OpenAI-compatible chat completions endpoint. The ledger core never calls
// it; the service layer translates its output into ledger operations.
package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finassist/finance-service/internal/config"
	"github.com/finassist/finance-service/internal/models"
)

// Client calls the extraction model
type Client struct {
	url    string
	model  string
	apiKey string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new extractor client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.ExtractorURL,
		model:  cfg.ExtractorModel,
		apiKey: cfg.ExtractorAPIKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// Extracted holds the structured fields pulled out of one user message.
type Extracted struct {
	Date              string  `json:"date"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	Merchant          string  `json:"merchant"`
	Category          string  `json:"category"`
	Account           string  `json:"account"`
	Note              string  `json:"note"`
	LiabilityType     string  `json:"liability_type"`
	LiabilityAmount   float64 `json:"liability_amount"`
	InstallmentsTotal int     `json:"installments_total"`
	InstallmentAmount float64 `json:"installment_amount"`
	Frequency         string  `json:"frequency"`
	DueDate           string  `json:"due_date"`
	Priority          int     `json:"priority"`
	PaymentType       string  `json:"payment_type"`
	Description       string  `json:"description"`
}

// Result is the routing decision returned by the extraction model.
type Result struct {
	Topic       string    `json:"topic"`  // finance | not_finance | greeting | unknown
	Intent      string    `json:"intent"` // record_expense | record_liability | record_payment | ask_finance_question | other
	Action      string    `json:"action"` // save | clarify | reject | answer
	Extracted   Extracted `json:"extracted"`
	Missing     []string  `json:"missing"`
	AnswerDraft string    `json:"answer_draft"`
	Confidence  float64   `json:"confidence"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// historyLimit caps how many prior turns are sent for context.
const historyLimit = 20

// Extract classifies one message and pulls out its structured fields,
// including up to 20 turns of session history for context.
func (c *Client) Extract(message string, history []models.ChatMessage) (*Result, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: 0.1,
	}
	req.ResponseFormat.Type = "json_object"
	req.Messages = append(req.Messages, chatMessage{Role: "system", Content: systemPolicy()})
	start := 0
	if len(history) > historyLimit {
		start = len(history) - historyLimit
	}
	for _, m := range history[start:] {
		if m.Role == "user" || m.Role == "assistant" {
			req.Messages = append(req.Messages, chatMessage{Role: m.Role, Content: m.Content})
		}
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: message})

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extractor request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("extractor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extractor returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extractor response: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("failed to parse extractor response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("extractor returned no choices")
	}

	result := &Result{}
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), result); err != nil {
		c.log.Debugf("unparseable extractor content: %s", chat.Choices[0].Message.Content)
		// Reject gracefully instead of failing the chat turn.
		return &Result{Topic: "unknown", Intent: "other", Action: "reject"}, nil
	}
	return result, nil
}

func systemPolicy() string {
	return fmt.Sprintf(`You are FinanceRouter, a gatekeeping and extraction model for a finance-only assistant.

### ALLOWED
- Personal finance: expenses, income, budgeting, payment methods.
- Liabilities & loans: bills, EMIs, student loans, car payments, credit cards, or any debt.
- Payments against existing liabilities.
- General greetings and pleasantries.

### DISALLOWED
- Anything outside finance or light small talk.
- Medical, legal, or other professional advice.

### OUTPUT FORMAT
Return ONLY valid JSON:
{
  "topic": "finance" | "not_finance" | "greeting" | "unknown",
  "intent": "record_expense" | "record_liability" | "record_payment" | "ask_finance_question" | "other",
  "action": "save" | "clarify" | "reject" | "answer",
  "extracted": {
    "date": "YYYY-MM-DD | null", "amount": 0.0, "currency": "USD",
    "merchant": null, "category": null, "account": null, "note": null,
    "liability_type": null, "liability_amount": 0.0, "installments_total": 0,
    "installment_amount": 0.0, "frequency": "weekly|monthly|quarterly|yearly|one_time|null",
    "due_date": "YYYY-MM-DD | null", "priority": 0,
    "payment_type": "installment|full|partial|null", "description": null
  },
  "missing": [], "answer_draft": "short reply", "confidence": 0.0
}

### DECISION RULES
1) Off-topic messages: topic="not_finance", action="reject".
2) Greetings: topic="greeting", action="answer".
3) EXPENSE requires: amount, account (how it was paid).
4) LIABILITY requires: liability_type, liability_amount, frequency, due_date.
5) PAYMENT requires: liability_type, payment_type, account; amount only for partial payments.
6) When required fields are missing: action="clarify" and list them in "missing".
7) Only set action="save" when all required fields exist and are coherent.
8) Use today's date %s only when the user clearly implies "today".
9) Return strictly valid JSON, no markdown, no extra text.`, time.Now().Format("2006-01-02"))
}
