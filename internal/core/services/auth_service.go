package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bankops/ledgercore/internal/apperrors"
	"github.com/bankops/ledgercore/internal/core/domain"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/internal/dto"
	"github.com/bankops/ledgercore/internal/middleware"
	"github.com/bankops/ledgercore/internal/utils"
	"github.com/bankops/ledgercore/pkg/config"
)

type authService struct {
	accountRepo       portsrepo.AccountRepository
	notifier          portssvc.NotificationSink
	jwtSecret         string
	jwtExpiry         time.Duration
	jwtIssuer         string
	staffID           string
	staffPasswordHash string
}

// NewAuthService creates the login guard.
func NewAuthService(cfg *config.Config, repo portsrepo.AccountRepository, notifier portssvc.NotificationSink) portssvc.AuthSvcFacade {
	return &authService{
		accountRepo:       repo,
		notifier:          notifier,
		jwtSecret:         cfg.JWTSecret,
		jwtExpiry:         cfg.JWTExpiryDuration,
		jwtIssuer:         cfg.JWTIssuer,
		staffID:           cfg.StaffID,
		staffPasswordHash: cfg.StaffPasswordHash,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Authenticate verifies credentials against the stored hash. Wrong passwords
// consume an attempt; at the threshold the account flips to BLOCKED. Attempts
// against a blocked account fail immediately without consuming anything.
// Lookup failures and bad passwords return the same error so the endpoint
// does not reveal which accounts exist.
//
// The configured staff principal logs in through the same endpoint; matching
// it issues a STAFF token instead of a CUSTOMER one.
func (s *authService) Authenticate(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.staffID != "" && req.AccountNumber == s.staffID {
		return s.authenticateStaff(ctx, req)
	}

	account, err := s.accountRepo.FindAccountByNumber(ctx, req.AccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		logger.Error("failed to load account for authentication", slog.String("error", err.Error()))
		return nil, err
	}

	if account.Status == domain.AccountBlocked {
		return nil, fmt.Errorf("%w: account is blocked", apperrors.ErrForbidden)
	}
	if account.IsClosed() {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		attempts, blocked, recErr := s.accountRepo.RecordFailedLogin(ctx, req.AccountNumber, domain.MaxFailedLoginAttempts, time.Now())
		if recErr != nil {
			logger.Error("failed to record failed login", slog.String("error", recErr.Error()), slog.String("account_number", req.AccountNumber))
			return nil, recErr
		}
		if blocked {
			logger.Warn("account blocked after repeated failed logins",
				slog.String("account_number", req.AccountNumber), slog.Int("attempts", attempts))
			s.notifier.Enqueue(domain.NotificationRequest{
				AccountNumber: req.AccountNumber,
				EventType:     domain.EventAccountBlocked,
			})
			return nil, fmt.Errorf("%w: account is blocked", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if account.FailedAttempts > 0 {
		if err := s.accountRepo.ResetFailedLogins(ctx, req.AccountNumber, time.Now()); err != nil {
			logger.Error("failed to reset failed-login counter", slog.String("error", err.Error()), slog.String("account_number", req.AccountNumber))
			return nil, err
		}
	}

	token, err := utils.GenerateJWT(account.AccountNumber, utils.RoleCustomer, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to issue token", err)
	}

	logger.Info("login succeeded", slog.String("account_number", account.AccountNumber))
	return &dto.LoginResponse{
		AccountNumber: account.AccountNumber,
		Token:         token,
		ExpiresAt:     time.Now().Add(s.jwtExpiry),
	}, nil
}

// authenticateStaff checks the password against the configured staff hash.
// Staff are not backed by an account row, so there is no failed-attempt
// counter; the per-IP rate limit on the login route still applies.
func (s *authService) authenticateStaff(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !utils.CheckPasswordHash(req.Password, s.staffPasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(s.staffID, utils.RoleStaff, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to issue token", err)
	}

	logger.Info("staff login succeeded", slog.String("staff_id", s.staffID))
	return &dto.LoginResponse{
		AccountNumber: s.staffID,
		Token:         token,
		ExpiresAt:     time.Now().Add(s.jwtExpiry),
	}, nil
}

// Unblock resets the failed-attempt counter and reactivates a blocked account.
func (s *authService) Unblock(ctx context.Context, accountNumber string, staffID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}
	if account.Status != domain.AccountBlocked {
		return fmt.Errorf("%w: account %s is not blocked", apperrors.ErrConflict, accountNumber)
	}

	now := time.Now()
	if err := s.accountRepo.ResetFailedLogins(ctx, accountNumber, now); err != nil {
		return err
	}
	if err := s.accountRepo.UpdateStatus(ctx, accountNumber, domain.AccountActive, staffID, now); err != nil {
		return err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: accountNumber,
		EventType:     domain.EventAccountUnblocked,
	})

	logger.Info("account unblocked", slog.String("account_number", accountNumber), slog.String("staff_id", staffID))
	return nil
}
