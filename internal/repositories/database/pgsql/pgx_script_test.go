package pgsql

import (
	"context"
	"reflect"
	"time"

	"github.com/bankops/ledgercore/internal/apperrors"
	"github.com/bankops/ledgercore/internal/core/domain"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	"github.com/bankops/ledgercore/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// scriptedRow satisfies pgx.Row with a canned Scan outcome.
type scriptedRow struct {
	err  error
	vals []any
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

func accountRow(m models.Account) scriptedRow {
	return scriptedRow{vals: []any{
		m.AccountNumber, m.OwnerName, m.AccountType, m.Status, m.Balance,
		m.FailedAttempts, m.PasswordHash, m.OpenedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}}
}

func balanceRow(balance decimal.Decimal) scriptedRow {
	return scriptedRow{vals: []any{balance}}
}

// scriptedTx satisfies pgx.Tx against canned per-statement outcomes. It records
// every statement it sees so tests can assert what ran before a failure.
type scriptedTx struct {
	execFn     func(sql string, args []any) (pgconn.CommandTag, error)
	queryRowFn func(sql string, args []any) pgx.Row
	batchErr   error
	statements []string
	commits    int
	rollbacks  int
}

func (t *scriptedTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *scriptedTx) Commit(ctx context.Context) error {
	t.commits++
	return nil
}

func (t *scriptedTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	return nil
}

func (t *scriptedTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.statements = append(t.statements, sql)
	if t.execFn == nil {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return t.execFn(sql, args)
}

func (t *scriptedTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.statements = append(t.statements, sql)
	if t.queryRowFn == nil {
		return scriptedRow{err: pgx.ErrNoRows}
	}
	return t.queryRowFn(sql, args)
}

func (t *scriptedTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return scriptedBatchResults{err: t.batchErr}
}

func (t *scriptedTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("scriptedTx: Query not scripted")
}

func (t *scriptedTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("scriptedTx: CopyFrom not scripted")
}

func (t *scriptedTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("scriptedTx: Prepare not scripted")
}

func (t *scriptedTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *scriptedTx) Conn() *pgx.Conn { return nil }

type scriptedBatchResults struct{ err error }

func (b scriptedBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, b.err }
func (b scriptedBatchResults) Query() (pgx.Rows, error)         { return nil, b.err }
func (b scriptedBatchResults) QueryRow() pgx.Row                { return scriptedRow{err: b.err} }
func (b scriptedBatchResults) Close() error                     { return b.err }

// scriptedDB satisfies DB, handing every transaction the same scripted tx.
type scriptedDB struct {
	tx       *scriptedTx
	beginErr error
	begins   int
}

func (db *scriptedDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.begins++
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return db.tx, nil
}

func (db *scriptedDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	panic("scriptedDB: Exec not scripted")
}

func (db *scriptedDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("scriptedDB: Query not scripted")
}

func (db *scriptedDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("scriptedDB: QueryRow not scripted")
}

// stubAccountRepo serves locked account reads from a map and records every
// balance adjustment, keyed by account number.
type stubAccountRepo struct {
	portsrepo.AccountRepository
	accounts    map[string]*domain.Account
	adjustments map[string]decimal.Decimal
}

func newStubAccountRepo(accounts ...*domain.Account) *stubAccountRepo {
	s := &stubAccountRepo{
		accounts:    map[string]*domain.Account{},
		adjustments: map[string]decimal.Decimal{},
	}
	for _, acc := range accounts {
		s.accounts[acc.AccountNumber] = acc
	}
	return s
}

func (s *stubAccountRepo) FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	acc, ok := s.accounts[accountNumber]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return acc, nil
}

func (s *stubAccountRepo) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountNumber string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	s.adjustments[accountNumber] = s.adjustments[accountNumber].Add(delta)
	return s.accounts[accountNumber].Balance.Add(delta), nil
}

// stubTxnRepo records ledger inserts, optionally failing the nth one.
type stubTxnRepo struct {
	portsrepo.TransactionRepository
	inserted  []domain.Transaction
	failOn    int
	insertErr error
}

func (s *stubTxnRepo) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if s.failOn != 0 && len(s.inserted)+1 == s.failOn {
		return s.insertErr
	}
	s.inserted = append(s.inserted, txn)
	return nil
}
