package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Wallet holds the balance of one currency. Balances never go negative.
type Wallet struct {
	CurrencyCode string          `json:"currency_code"`
	Balance      decimal.Decimal `json:"balance"`
}

// Deposit adds a strictly positive amount to the balance.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw removes a strictly positive amount, refusing to overdraw.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	if amount.GreaterThan(w.Balance) {
		return &InsufficientFundsError{
			Code:      w.CurrencyCode,
			Available: w.Balance.String(),
			Required:  amount.String(),
		}
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// Portfolio is the per-user set of wallets, keyed by currency code.
type Portfolio struct {
	UserID  int64              `json:"user_id"`
	Wallets map[string]*Wallet `json:"wallets"`
}

func NewPortfolio(userID int64) Portfolio {
	return Portfolio{UserID: userID, Wallets: map[string]*Wallet{}}
}

// Wallet returns the wallet for code, or a WalletNotFoundError.
func (p *Portfolio) Wallet(code string) (*Wallet, error) {
	code = strings.ToUpper(code)
	w, ok := p.Wallets[code]
	if !ok {
		return nil, &WalletNotFoundError{Code: code}
	}
	return w, nil
}

// AddCurrency returns the wallet for code, creating an empty one if absent.
func (p *Portfolio) AddCurrency(code string) *Wallet {
	code = strings.ToUpper(code)
	if p.Wallets == nil {
		p.Wallets = map[string]*Wallet{}
	}
	if w, ok := p.Wallets[code]; ok {
		return w
	}
	w := &Wallet{CurrencyCode: code}
	p.Wallets[code] = w
	return w
}

// TotalValue sums wallet balances converted to base using the snapshot,
// deriving reciprocal rates where needed. Currencies without any usable
// rate are skipped rather than failing the whole valuation.
func (p *Portfolio) TotalValue(base string, snap Snapshot) decimal.Decimal {
	base = strings.ToUpper(base)
	total := decimal.Zero
	for code, w := range p.Wallets {
		if code == base {
			total = total.Add(w.Balance)
			continue
		}
		rate, err := snap.Rate(code, base)
		if err != nil {
			continue
		}
		total = total.Add(w.Balance.Mul(decimal.NewFromFloat(rate)))
	}
	return total
}
