package services

import (
	"context"

	"github.com/bankops/ledgercore/internal/dto"
)

// AuthSvcFacade is the login guard: password verification, failed-attempt
// tracking with lockout, and token issuance.
type AuthSvcFacade interface {
	// Authenticate verifies the credentials for an account. On success the
	// failed-attempt counter resets and a signed token is returned. On failure
	// the counter increments; at the threshold the account becomes BLOCKED.
	// Attempts against a BLOCKED account fail immediately without consuming an
	// attempt.
	Authenticate(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// Unblock is a staff-only operation: resets the failed-attempt counter to
	// zero and the status to ACTIVE.
	Unblock(ctx context.Context, accountNumber string, staffID string) error
}
