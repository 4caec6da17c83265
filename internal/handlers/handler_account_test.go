package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bankops/ledgercore/internal/apperrors"
	"github.com/bankops/ledgercore/internal/core/domain"
	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/internal/dto"
	"github.com/bankops/ledgercore/internal/handlers"
	"github.com/bankops/ledgercore/internal/utils"
	"github.com/bankops/ledgercore/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Deposit(ctx context.Context, req dto.DepositRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Withdraw(ctx context.Context, req dto.WithdrawRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*dto.TransferResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferResult), args.Error(1)
}
func (m *MockAccountService) UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus, userID string) error {
	args := m.Called(ctx, accountNumber, status, userID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}
func (m *MockAuthService) Unblock(ctx context.Context, accountNumber string, staffID string) error {
	args := m.Called(ctx, accountNumber, staffID)
	return args.Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock ChequeService ---
type MockChequeService struct {
	mock.Mock
}

func (m *MockChequeService) CheckEligibility(ctx context.Context, accountNumber string) (*domain.EligibilityResult, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EligibilityResult), args.Error(1)
}
func (m *MockChequeService) RequestChequeBook(ctx context.Context, accountNumber string, userID string) (*domain.ChequeBook, error) {
	args := m.Called(ctx, accountNumber, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChequeBook), args.Error(1)
}
func (m *MockChequeService) ApproveChequeBook(ctx context.Context, chequeBookID string, staffID string) (*domain.ChequeBook, error) {
	args := m.Called(ctx, chequeBookID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChequeBook), args.Error(1)
}
func (m *MockChequeService) RejectChequeBook(ctx context.Context, chequeBookID string, reason string, staffID string) error {
	args := m.Called(ctx, chequeBookID, reason, staffID)
	return args.Error(0)
}
func (m *MockChequeService) GetChequeBook(ctx context.Context, chequeBookID string) (*dto.ChequeBookResponse, error) {
	args := m.Called(ctx, chequeBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChequeBookResponse), args.Error(1)
}
func (m *MockChequeService) ListChequeBooks(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.ChequeBook, error) {
	args := m.Called(ctx, accountNumber, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChequeBook), args.Error(1)
}
func (m *MockChequeService) GetChequeByNumber(ctx context.Context, chequeNumber int64) (*dto.ChequeResponse, error) {
	args := m.Called(ctx, chequeNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChequeResponse), args.Error(1)
}
func (m *MockChequeService) DepositCheque(ctx context.Context, req dto.DepositChequeRequest, userID string) (*domain.Cheque, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cheque), args.Error(1)
}
func (m *MockChequeService) ClearCheque(ctx context.Context, req dto.ClearChequeRequest, staffID string) (*domain.Cheque, error) {
	args := m.Called(ctx, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cheque), args.Error(1)
}
func (m *MockChequeService) BounceCheque(ctx context.Context, req dto.BounceChequeRequest, staffID string) (*domain.Cheque, error) {
	args := m.Called(ctx, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cheque), args.Error(1)
}
func (m *MockChequeService) CancelCheque(ctx context.Context, chequeNumber int64, userID string) (*domain.Cheque, error) {
	args := m.Called(ctx, chequeNumber, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cheque), args.Error(1)
}
func (m *MockChequeService) VoidCheque(ctx context.Context, chequeNumber int64, remarks string, staffID string) (*domain.Cheque, error) {
	args := m.Called(ctx, chequeNumber, remarks, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cheque), args.Error(1)
}

var _ portssvc.ChequeSvcFacade = (*MockChequeService)(nil)

// --- Mock HistoryService ---
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) ListTransactions(ctx context.Context, accountNumber string, params dto.ListHistoryParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, accountNumber, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockHistoryService) ListAccountHistory(ctx context.Context, accountNumber string, params dto.ListHistoryParams) (*dto.ListHistoryResponse, error) {
	args := m.Called(ctx, accountNumber, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListHistoryResponse), args.Error(1)
}

var _ portssvc.HistorySvcFacade = (*MockHistoryService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	mockAuthService    *MockAuthService
	mockChequeService  *MockChequeService
	mockHistoryService *MockHistoryService
	jwtSecret          string
}

func (suite *AccountHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		suite.Require().NoError(dto.RegisterCustomValidations(v))
	}
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAccountService = new(MockAccountService)
	suite.mockAuthService = new(MockAuthService)
	suite.mockChequeService = new(MockChequeService)
	suite.mockHistoryService = new(MockHistoryService)

	cfg := &config.Config{
		JWTSecret:      suite.jwtSecret,
		LoginRateLimit: "100-M",
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account: suite.mockAccountService,
		Auth:    suite.mockAuthService,
		Cheque:  suite.mockChequeService,
		History: suite.mockHistoryService,
	})
}

func (suite *AccountHandlerTestSuite) token(subject string, role utils.UserRole) string {
	token, err := utils.GenerateJWT(subject, role, suite.jwtSecret, time.Hour, "ledgercore-test")
	suite.Require().NoError(err)
	return token
}

func (suite *AccountHandlerTestSuite) doJSON(method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestGetAccount_Success() {
	account := &domain.Account{
		AccountNumber: "100000000001",
		OwnerName:     "Test Owner",
		AccountType:   domain.Savings,
		Status:        domain.AccountActive,
		Balance:       decimal.NewFromInt(750),
	}
	suite.mockAccountService.On("GetAccountByNumber", mock.Anything, account.AccountNumber).Return(account, nil).Once()

	token := suite.token(account.AccountNumber, utils.RoleCustomer)
	w := suite.doJSON(http.MethodGet, "/api/v1/accounts/100000000001", token, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(account.AccountNumber, resp.AccountNumber)
	suite.True(resp.Balance.Equal(account.Balance))
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByNumber", mock.Anything, "999999999999").Return(nil, apperrors.ErrNotFound).Once()

	token := suite.token("100000000001", utils.RoleCustomer)
	w := suite.doJSON(http.MethodGet, "/api/v1/accounts/999999999999", token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_MissingToken() {
	w := suite.doJSON(http.MethodGet, "/api/v1/accounts/100000000001", "", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountByNumber", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_StaffOnly() {
	token := suite.token("100000000001", utils.RoleCustomer)
	w := suite.doJSON(http.MethodPost, "/api/v1/accounts", token, dto.CreateAccountRequest{
		OwnerName:   "New Owner",
		AccountType: domain.Savings,
		Password:    "hunter2hunter2",
	})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	account := &domain.Account{
		AccountNumber: "100000000001",
		OwnerName:     "New Owner",
		AccountType:   domain.Savings,
		Status:        domain.AccountActive,
		Balance:       decimal.NewFromInt(100),
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.OwnerName == "New Owner" && req.AccountType == domain.Savings
		}), "staff-1").Return(account, nil).Once()

	token := suite.token("staff-1", utils.RoleStaff)
	w := suite.doJSON(http.MethodPost, "/api/v1/accounts", token, dto.CreateAccountRequest{
		OwnerName:      "New Owner",
		AccountType:    domain.Savings,
		Password:       "hunter2hunter2",
		InitialDeposit: decimal.NewFromInt(100),
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestDeposit_AccountNumberComesFromPath() {
	account := &domain.Account{
		AccountNumber: "100000000001",
		Status:        domain.AccountActive,
		Balance:       decimal.NewFromInt(150),
	}
	suite.mockAccountService.On("Deposit", mock.Anything,
		mock.MatchedBy(func(req dto.DepositRequest) bool {
			return req.AccountNumber == "100000000001" && req.Amount.Equal(decimal.NewFromInt(50))
		}), "100000000001").Return(account, nil).Once()

	token := suite.token("100000000001", utils.RoleCustomer)
	w := suite.doJSON(http.MethodPost, "/api/v1/accounts/100000000001/deposit", token,
		map[string]interface{}{"amount": "50"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestDeposit_NonPositiveAmount() {
	token := suite.token("100000000001", utils.RoleCustomer)
	w := suite.doJSON(http.MethodPost, "/api/v1/accounts/100000000001/deposit", token,
		map[string]interface{}{"amount": "-5"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestWithdraw_InsufficientBalance() {
	suite.mockAccountService.On("Withdraw", mock.Anything, mock.AnythingOfType("dto.WithdrawRequest"), "100000000001").
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	token := suite.token("100000000001", utils.RoleCustomer)
	w := suite.doJSON(http.MethodPost, "/api/v1/accounts/100000000001/withdraw", token,
		map[string]interface{}{"amount": "500"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *AccountHandlerTestSuite) TestLogin_Success() {
	resp := &dto.LoginResponse{
		AccountNumber: "100000000001",
		Token:         "issued-token",
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	suite.mockAuthService.On("Authenticate", mock.Anything,
		mock.MatchedBy(func(req dto.LoginRequest) bool {
			return req.AccountNumber == "100000000001" && req.Password == "hunter2hunter2"
		})).Return(resp, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		AccountNumber: "100000000001",
		Password:      "hunter2hunter2",
	})

	suite.Equal(http.StatusOK, w.Code)

	var body dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("issued-token", body.Token)
}

func (suite *AccountHandlerTestSuite) TestLogin_BlockedAccount() {
	suite.mockAuthService.On("Authenticate", mock.Anything, mock.AnythingOfType("dto.LoginRequest")).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		AccountNumber: "100000000001",
		Password:      "wrong",
	})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *AccountHandlerTestSuite) TestUnblock_StaffOnly() {
	token := suite.token("100000000001", utils.RoleCustomer)
	w := suite.doJSON(http.MethodPost, "/api/v1/accounts/100000000001/unblock", token, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Unblock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
