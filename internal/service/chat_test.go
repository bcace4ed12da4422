package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/finassist/finance-service/internal/ledger"
)

func TestClarifyReplyAsksForPaymentMethod(t *testing.T) {
	reply := clarifyReply([]string{"account"})
	if reply.Status != "clarify" {
		t.Fatalf("status = %q, want clarify", reply.Status)
	}
	if !strings.Contains(reply.Reply, "How did you pay") {
		t.Fatalf("reply = %q, want payment-method question", reply.Reply)
	}
}

func TestClarifyReplyListsMissingFields(t *testing.T) {
	reply := clarifyReply([]string{"due_date", "frequency"})
	if !strings.Contains(reply.Reply, "due_date") || !strings.Contains(reply.Reply, "frequency") {
		t.Fatalf("reply = %q, want both missing fields named", reply.Reply)
	}
}

func TestLedgerErrorReply(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
		wantPart   string
	}{
		{
			name:       "insufficient funds",
			err:        &ledger.InsufficientFundsError{AvailableCents: 3800_00, RequiredCents: 5000_00},
			wantStatus: "rejected",
			wantPart:   "3800.00",
		},
		{
			name:       "asset not found",
			err:        fmt.Errorf("resolve: %w", ledger.ErrAssetNotFound),
			wantStatus: "clarify",
			wantPart:   "account",
		},
		{
			name:       "liability not found",
			err:        ledger.ErrLiabilityNotFound,
			wantStatus: "clarify",
			wantPart:   "liability",
		},
		{
			name:       "liability completed",
			err:        ledger.ErrLiabilityCompleted,
			wantStatus: "rejected",
			wantPart:   "already fully paid",
		},
		{
			name:       "missing amount",
			err:        ledger.ErrMissingPaymentAmount,
			wantStatus: "clarify",
			wantPart:   "How much",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := ledgerErrorReply(tt.err)
			if reply.Status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", reply.Status, tt.wantStatus)
			}
			if !strings.Contains(reply.Reply, tt.wantPart) {
				t.Fatalf("reply = %q, want it to mention %q", reply.Reply, tt.wantPart)
			}
		})
	}
}
