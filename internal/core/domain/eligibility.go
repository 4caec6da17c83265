package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ChequeBookPolicy holds the per-account-type thresholds consulted before a
// cheque book request is accepted.
type ChequeBookPolicy struct {
	MinBalance      decimal.Decimal
	MinAgeDays      int
	MaxBooksPerYear int
	LeavesPerBook   int
	Eligible        bool // LOAN accounts are categorically ineligible
}

// DefaultChequeBookPolicies returns the standard policy table.
func DefaultChequeBookPolicies() map[AccountType]ChequeBookPolicy {
	return map[AccountType]ChequeBookPolicy{
		Savings: {
			MinBalance:      decimal.NewFromInt(500),
			MinAgeDays:      90,
			MaxBooksPerYear: 2,
			LeavesPerBook:   10,
			Eligible:        true,
		},
		Current: {
			MinBalance:      decimal.NewFromInt(1000),
			MinAgeDays:      30,
			MaxBooksPerYear: 12,
			LeavesPerBook:   25,
			Eligible:        true,
		},
		Loan: {
			Eligible: false,
		},
	}
}

// EligibilityResult reports whether an account qualifies for a new cheque book,
// and if not, the specific unmet conditions for display.
type EligibilityResult struct {
	Eligible      bool     `json:"eligible"`
	LeavesPerBook int      `json:"leavesPerBook"`
	Reasons       []string `json:"reasons,omitempty"`
}

// EvaluateChequeBookEligibility is a pure function of the account, its issuance
// count for the current year, and the policy table. No side effects.
func EvaluateChequeBookEligibility(account Account, booksIssuedThisYear int, policies map[AccountType]ChequeBookPolicy, now time.Time) EligibilityResult {
	policy, ok := policies[account.AccountType]
	if !ok || !policy.Eligible {
		return EligibilityResult{
			Eligible: false,
			Reasons:  []string{fmt.Sprintf("account type %s is not eligible for cheque books", account.AccountType)},
		}
	}

	var reasons []string
	if account.Status != AccountActive {
		reasons = append(reasons, fmt.Sprintf("account status is %s, must be ACTIVE", account.Status))
	}
	if account.Balance.LessThan(policy.MinBalance) {
		reasons = append(reasons, fmt.Sprintf("balance %s is below the minimum %s", account.Balance.StringFixed(2), policy.MinBalance.StringFixed(2)))
	}
	if age := account.AgeInDays(now); age < policy.MinAgeDays {
		reasons = append(reasons, fmt.Sprintf("account age %d days is below the minimum %d days", age, policy.MinAgeDays))
	}
	if booksIssuedThisYear >= policy.MaxBooksPerYear {
		reasons = append(reasons, fmt.Sprintf("already issued %d cheque books this year, limit is %d", booksIssuedThisYear, policy.MaxBooksPerYear))
	}

	return EligibilityResult{
		Eligible:      len(reasons) == 0,
		LeavesPerBook: policy.LeavesPerBook,
		Reasons:       reasons,
	}
}
