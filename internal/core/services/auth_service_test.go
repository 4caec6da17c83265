package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bankops/ledgercore/internal/apperrors"
	"github.com/bankops/ledgercore/internal/core/domain"
	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/internal/core/services"
	"github.com/bankops/ledgercore/internal/dto"
	"github.com/bankops/ledgercore/internal/utils"
	"github.com/bankops/ledgercore/pkg/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	notifier        *recordingNotifier
	service         portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.notifier = &recordingNotifier{}
	staffHash, err := utils.HashPassword("staff-pass")
	suite.Require().NoError(err)
	cfg := &config.Config{
		JWTSecret:         "test-secret-key",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ledgercore-test",
		StaffID:           "teller-01",
		StaffPasswordHash: staffHash,
	}
	suite.service = services.NewAuthService(cfg, suite.mockAccountRepo, suite.notifier)
}

func accountWithPassword(accountNumber, password string) *domain.Account {
	hash, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}
	acc := activeAccount(accountNumber, 100)
	acc.PasswordHash = hash
	return acc
}

func (suite *AuthServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	acc := accountWithPassword("100000000001", "correct-horse")

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(acc, nil).Once()

	resp, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: acc.AccountNumber,
		Password:      "correct-horse",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(acc.AccountNumber, resp.AccountNumber)
	suite.NotEmpty(resp.Token)

	claims, err := utils.ParseAndValidateJWT(resp.Token, "test-secret-key")
	suite.Require().NoError(err)
	suite.Equal(acc.AccountNumber, claims.Subject)
	suite.Equal(utils.RoleCustomer, claims.Role)

	// No failed attempts to reset on a clean account.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "ResetFailedLogins", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_SuccessResetsCounter() {
	ctx := context.Background()
	acc := accountWithPassword("100000000001", "correct-horse")
	acc.FailedAttempts = 2

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(acc, nil).Once()
	suite.mockAccountRepo.On("ResetFailedLogins", ctx, acc.AccountNumber, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: acc.AccountNumber,
		Password:      "correct-horse",
	})

	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestAuthenticate_WrongPasswordConsumesAttempt() {
	ctx := context.Background()
	acc := accountWithPassword("100000000001", "correct-horse")

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(acc, nil).Once()
	suite.mockAccountRepo.On("RecordFailedLogin", ctx, acc.AccountNumber, domain.MaxFailedLoginAttempts, mock.AnythingOfType("time.Time")).
		Return(1, false, nil).Once()

	_, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: acc.AccountNumber,
		Password:      "wrong-password",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Empty(suite.notifier.Events())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestAuthenticate_ThirdFailureBlocks() {
	ctx := context.Background()
	acc := accountWithPassword("100000000001", "correct-horse")
	acc.FailedAttempts = 2

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(acc, nil).Once()
	suite.mockAccountRepo.On("RecordFailedLogin", ctx, acc.AccountNumber, domain.MaxFailedLoginAttempts, mock.AnythingOfType("time.Time")).
		Return(3, true, nil).Once()

	_, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: acc.AccountNumber,
		Password:      "wrong-password",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Equal([]domain.NotificationEvent{domain.EventAccountBlocked}, suite.notifier.EventTypes())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestAuthenticate_BlockedAccountDoesNotConsumeAttempt() {
	ctx := context.Background()
	acc := accountWithPassword("100000000001", "correct-horse")
	acc.Status = domain.AccountBlocked

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(acc, nil).Once()

	_, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: acc.AccountNumber,
		Password:      "correct-horse",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "RecordFailedLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_UnknownAccountLooksLikeBadCredentials() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "999999999999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: "999999999999",
		Password:      "whatever",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_StaffLoginIssuesStaffToken() {
	ctx := context.Background()

	resp, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: "teller-01",
		Password:      "staff-pass",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal("teller-01", resp.AccountNumber)

	claims, err := utils.ParseAndValidateJWT(resp.Token, "test-secret-key")
	suite.Require().NoError(err)
	suite.Equal("teller-01", claims.Subject)
	suite.Equal(utils.RoleStaff, claims.Role)

	// Staff are not accounts; the repository is never consulted.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByNumber", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_StaffWrongPassword() {
	ctx := context.Background()

	_, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: "teller-01",
		Password:      "wrong-password",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "RecordFailedLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_NoStaffConfiguredFallsThroughToAccounts() {
	ctx := context.Background()
	suite.service = services.NewAuthService(&config.Config{
		JWTSecret:         "test-secret-key",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ledgercore-test",
	}, suite.mockAccountRepo, suite.notifier)

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "teller-01").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, dto.LoginRequest{
		AccountNumber: "teller-01",
		Password:      "staff-pass",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestUnblock_Success() {
	ctx := context.Background()
	acc := accountWithPassword("100000000001", "correct-horse")
	acc.Status = domain.AccountBlocked
	acc.FailedAttempts = 3

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(acc, nil).Once()
	suite.mockAccountRepo.On("ResetFailedLogins", ctx, acc.AccountNumber, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateStatus", ctx, acc.AccountNumber, domain.AccountActive, "staff-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.Unblock(ctx, acc.AccountNumber, "staff-1")

	suite.Require().NoError(err)
	suite.Equal([]domain.NotificationEvent{domain.EventAccountUnblocked}, suite.notifier.EventTypes())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestUnblock_NotBlocked() {
	ctx := context.Background()
	acc := accountWithPassword("100000000001", "correct-horse")

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(acc, nil).Once()

	err := suite.service.Unblock(ctx, acc.AccountNumber, "staff-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
