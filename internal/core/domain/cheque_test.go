package domain_test

import (
	"testing"

	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestChequeStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.ChequeStatus
		to   domain.ChequeStatus
		want bool
	}{
		{"issued to deposited", domain.ChequeIssued, domain.ChequeDeposited, true},
		{"issued to cancelled", domain.ChequeIssued, domain.ChequeCancelled, true},
		{"issued to cleared skips deposit", domain.ChequeIssued, domain.ChequeCleared, false},
		{"deposited to cleared", domain.ChequeDeposited, domain.ChequeCleared, true},
		{"deposited to bounced", domain.ChequeDeposited, domain.ChequeBounced, true},
		{"deposited to pending clearance", domain.ChequeDeposited, domain.ChequePendingClearance, true},
		{"pending clearance to cleared", domain.ChequePendingClearance, domain.ChequeCleared, true},
		{"pending clearance to bounced", domain.ChequePendingClearance, domain.ChequeBounced, true},
		{"cleared is terminal", domain.ChequeCleared, domain.ChequeDeposited, false},
		{"bounced is terminal", domain.ChequeBounced, domain.ChequeCleared, false},
		{"cancelled cheque cannot be deposited", domain.ChequeCancelled, domain.ChequeDeposited, false},
		{"issued to void", domain.ChequeIssued, domain.ChequeVoid, true},
		{"deposited to void", domain.ChequeDeposited, domain.ChequeVoid, true},
		{"cleared to void", domain.ChequeCleared, domain.ChequeVoid, false},
		{"void to void", domain.ChequeVoid, domain.ChequeVoid, false},
		{"deposited back to issued", domain.ChequeDeposited, domain.ChequeIssued, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestChequeStatus_IsTerminal(t *testing.T) {
	terminal := []domain.ChequeStatus{domain.ChequeCleared, domain.ChequeBounced, domain.ChequeCancelled, domain.ChequeVoid}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "expected %s to be terminal", s)
	}

	open := []domain.ChequeStatus{domain.ChequeIssued, domain.ChequeDeposited, domain.ChequePendingClearance}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "expected %s to be non-terminal", s)
	}
}
