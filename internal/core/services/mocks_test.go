package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/bankops/ledgercore/internal/core/domain"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account, initial *domain.Transaction) error {
	args := m.Called(ctx, account, initial)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) ApplyMutation(ctx context.Context, accountNumber string, delta decimal.Decimal, entry domain.Transaction, allowNegative bool) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber, delta, entry, allowNegative)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) ApplyTransfer(ctx context.Context, from string, to string, amount decimal.Decimal, outEntry domain.Transaction, inEntry domain.Transaction) error {
	args := m.Called(ctx, from, to, amount, outEntry, inEntry)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, accountNumber, status, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) RecordFailedLogin(ctx context.Context, accountNumber string, threshold int, now time.Time) (int, bool, error) {
	args := m.Called(ctx, accountNumber, threshold, now)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) ResetFailedLogins(ctx context.Context, accountNumber string, now time.Time) error {
	args := m.Called(ctx, accountNumber, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountNumber)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountNumber string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, accountNumber, delta, userID, now)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

// --- Mock ChequeRepository ---

type MockChequeRepository struct {
	mock.Mock
}

func (m *MockChequeRepository) SaveChequeBook(ctx context.Context, book domain.ChequeBook) (*domain.ChequeBook, error) {
	args := m.Called(ctx, book)
	var saved *domain.ChequeBook
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.ChequeBook)
	}
	return saved, args.Error(1)
}

func (m *MockChequeRepository) FindChequeBookByID(ctx context.Context, chequeBookID string) (*domain.ChequeBook, error) {
	args := m.Called(ctx, chequeBookID)
	var book *domain.ChequeBook
	if args.Get(0) != nil {
		book = args.Get(0).(*domain.ChequeBook)
	}
	return book, args.Error(1)
}

func (m *MockChequeRepository) ListChequeBooksByAccount(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.ChequeBook, error) {
	args := m.Called(ctx, accountNumber, limit, offset)
	var books []domain.ChequeBook
	if args.Get(0) != nil {
		books = args.Get(0).([]domain.ChequeBook)
	}
	return books, args.Error(1)
}

func (m *MockChequeRepository) CountBooksIssuedInYear(ctx context.Context, accountNumber string, ref time.Time) (int, error) {
	args := m.Called(ctx, accountNumber, ref)
	return args.Int(0), args.Error(1)
}

func (m *MockChequeRepository) IssueChequeBook(ctx context.Context, book domain.ChequeBook, leaves []domain.Cheque, audit domain.ChequeTransaction) error {
	args := m.Called(ctx, book, leaves, audit)
	return args.Error(0)
}

func (m *MockChequeRepository) UpdateChequeBook(ctx context.Context, book domain.ChequeBook) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockChequeRepository) FindChequeByNumber(ctx context.Context, chequeNumber int64) (*domain.Cheque, error) {
	args := m.Called(ctx, chequeNumber)
	var cheque *domain.Cheque
	if args.Get(0) != nil {
		cheque = args.Get(0).(*domain.Cheque)
	}
	return cheque, args.Error(1)
}

func (m *MockChequeRepository) ListChequesByBook(ctx context.Context, chequeBookID string) ([]domain.Cheque, error) {
	args := m.Called(ctx, chequeBookID)
	var cheques []domain.Cheque
	if args.Get(0) != nil {
		cheques = args.Get(0).([]domain.Cheque)
	}
	return cheques, args.Error(1)
}

func (m *MockChequeRepository) TransitionCheque(ctx context.Context, cheque domain.Cheque, audit domain.ChequeTransaction) error {
	args := m.Called(ctx, cheque, audit)
	return args.Error(0)
}

func (m *MockChequeRepository) ClearChequeWithLedger(ctx context.Context, cheque domain.Cheque, audit domain.ChequeTransaction, issuerEntry domain.Transaction, depositorEntry *domain.Transaction, allowOverdraft bool) error {
	args := m.Called(ctx, cheque, audit, issuerEntry, depositorEntry, allowOverdraft)
	return args.Error(0)
}

func (m *MockChequeRepository) ListChequeTransactions(ctx context.Context, chequeID string) ([]domain.ChequeTransaction, error) {
	args := m.Called(ctx, chequeID)
	var records []domain.ChequeTransaction
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.ChequeTransaction)
	}
	return records, args.Error(1)
}

var _ portsrepo.ChequeRepository = (*MockChequeRepository)(nil)

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountNumber string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountNumber, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

// --- Mock HistoryRepository ---

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) ListAccountHistory(ctx context.Context, accountNumber string, limit int, nextToken *string) ([]portsrepo.HistoryEntry, *string, error) {
	args := m.Called(ctx, accountNumber, limit, nextToken)
	var entries []portsrepo.HistoryEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]portsrepo.HistoryEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

var _ portsrepo.HistoryRepository = (*MockHistoryRepository)(nil)

// --- Recording notification sink ---

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.NotificationRequest
}

func (r *recordingNotifier) Enqueue(req domain.NotificationRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, req)
}

func (r *recordingNotifier) Events() []domain.NotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.NotificationRequest, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recordingNotifier) EventTypes() []domain.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]domain.NotificationEvent, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.EventType)
	}
	return types
}
