package application

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// WalletService implements the account and portfolio operations on top of
// the rate cache. It only ever reads the cache, through LoadSnapshot.
type WalletService struct {
	users      UserRepo
	portfolios PortfolioRepo
	sessions   SessionStore
	rates      RateStore
	base       string
	ttl        time.Duration
	clock      Clock
}

type WalletOption func(*WalletService)

func WithWalletClock(c Clock) WalletOption {
	return func(s *WalletService) { s.clock = c }
}

func NewWalletService(users UserRepo, portfolios PortfolioRepo, sessions SessionStore, rates RateStore, base string, ttl time.Duration, opts ...WalletOption) *WalletService {
	s := &WalletService{
		users:      users,
		portfolios: portfolios,
		sessions:   sessions,
		rates:      rates,
		base:       strings.ToUpper(base),
		ttl:        ttl,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	return s
}

// Register creates a user with an empty portfolio.
func (s *WalletService) Register(username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if _, exists, err := s.users.FindByUsername(username); err != nil {
		return domain.User{}, err
	} else if exists {
		return domain.User{}, domain.ErrUsernameTaken
	}
	id, err := s.users.NextID()
	if err != nil {
		return domain.User{}, err
	}
	u, err := domain.NewUser(id, username, password, s.clock.Now())
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.Add(u); err != nil {
		return domain.User{}, err
	}
	if err := s.portfolios.Put(domain.NewPortfolio(id)); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Login verifies credentials and persists the session.
func (s *WalletService) Login(username, password string) (domain.User, error) {
	u, exists, err := s.users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return domain.User{}, err
	}
	if !exists || !u.VerifyPassword(password) {
		return domain.User{}, domain.ErrBadCredentials
	}
	// A missing portfolio is recreated rather than treated as fatal.
	if _, ok, err := s.portfolios.Get(u.ID); err != nil {
		return domain.User{}, err
	} else if !ok {
		if err := s.portfolios.Put(domain.NewPortfolio(u.ID)); err != nil {
			return domain.User{}, err
		}
	}
	sess := domain.Session{UserID: u.ID, Username: u.Username, LoggedInAt: s.clock.Now()}
	if err := s.sessions.Save(sess); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Logout clears the persisted session.
func (s *WalletService) Logout() error { return s.sessions.Clear() }

func (s *WalletService) currentSession() (domain.Session, error) {
	sess, ok, err := s.sessions.Current()
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	return sess, nil
}

// TradeResult reports one executed buy or sell.
type TradeResult struct {
	Currency      string
	Amount        decimal.Decimal
	Rate          float64
	BaseValue     decimal.Decimal
	WalletBalance decimal.Decimal
}

// Buy credits amount of currency to the user's wallet at the cached rate.
func (s *WalletService) Buy(currency string, amount decimal.Decimal) (TradeResult, error) {
	sess, err := s.currentSession()
	if err != nil {
		return TradeResult{}, err
	}
	code, err := domain.ValidateCurrencyCode(currency)
	if err != nil {
		return TradeResult{}, err
	}
	if amount.Sign() <= 0 {
		return TradeResult{}, &domain.ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	rate, err := s.rates.LoadSnapshot().Rate(code, s.base)
	if err != nil {
		return TradeResult{}, err
	}

	pf, ok, err := s.portfolios.Get(sess.UserID)
	if err != nil {
		return TradeResult{}, err
	}
	if !ok {
		pf = domain.NewPortfolio(sess.UserID)
	}
	w := pf.AddCurrency(code)
	if err := w.Deposit(amount); err != nil {
		return TradeResult{}, err
	}
	if err := s.portfolios.Put(pf); err != nil {
		return TradeResult{}, err
	}
	return TradeResult{
		Currency:      code,
		Amount:        amount,
		Rate:          rate,
		BaseValue:     amount.Mul(decimal.NewFromFloat(rate)),
		WalletBalance: w.Balance,
	}, nil
}

// Sell debits amount of currency and credits the proceeds to the base
// currency wallet.
func (s *WalletService) Sell(currency string, amount decimal.Decimal) (TradeResult, error) {
	sess, err := s.currentSession()
	if err != nil {
		return TradeResult{}, err
	}
	code, err := domain.ValidateCurrencyCode(currency)
	if err != nil {
		return TradeResult{}, err
	}
	if amount.Sign() <= 0 {
		return TradeResult{}, &domain.ValidationError{Field: "amount", Reason: "must be a positive number"}
	}

	pf, ok, err := s.portfolios.Get(sess.UserID)
	if err != nil {
		return TradeResult{}, err
	}
	if !ok {
		return TradeResult{}, &domain.WalletNotFoundError{Code: code}
	}
	w, err := pf.Wallet(code)
	if err != nil {
		return TradeResult{}, err
	}
	if err := w.Withdraw(amount); err != nil {
		return TradeResult{}, err
	}

	rate, err := s.rates.LoadSnapshot().Rate(code, s.base)
	if err != nil {
		return TradeResult{}, err
	}
	proceeds := amount.Mul(decimal.NewFromFloat(rate))
	if code != s.base {
		if err := pf.AddCurrency(s.base).Deposit(proceeds); err != nil {
			return TradeResult{}, err
		}
	}
	if err := s.portfolios.Put(pf); err != nil {
		return TradeResult{}, err
	}
	return TradeResult{
		Currency:      code,
		Amount:        amount,
		Rate:          rate,
		BaseValue:     proceeds,
		WalletBalance: w.Balance,
	}, nil
}

// WalletView is one portfolio row valued in the requested base currency.
type WalletView struct {
	Currency    string
	Balance     decimal.Decimal
	Rate        float64
	ValueInBase decimal.Decimal
}

// PortfolioView is the valued portfolio of the logged-in user.
type PortfolioView struct {
	Username     string
	BaseCurrency string
	Wallets      []WalletView
	TotalValue   decimal.Decimal
}

// ShowPortfolio values every wallet in base. Wallets without a usable rate
// are shown with a zero rate instead of failing the whole view.
func (s *WalletService) ShowPortfolio(base string) (PortfolioView, error) {
	sess, err := s.currentSession()
	if err != nil {
		return PortfolioView{}, err
	}
	if base == "" {
		base = s.base
	}
	code, err := domain.ValidateCurrencyCode(base)
	if err != nil {
		return PortfolioView{}, err
	}

	pf, ok, err := s.portfolios.Get(sess.UserID)
	if err != nil {
		return PortfolioView{}, err
	}
	if !ok {
		pf = domain.NewPortfolio(sess.UserID)
	}

	snap := s.rates.LoadSnapshot()
	view := PortfolioView{Username: sess.Username, BaseCurrency: code}
	for _, cur := range sortedWalletCodes(pf) {
		w := pf.Wallets[cur]
		row := WalletView{Currency: cur, Balance: w.Balance}
		if cur == code {
			row.Rate = 1.0
			row.ValueInBase = w.Balance
		} else if rate, err := snap.Rate(cur, code); err == nil {
			row.Rate = rate
			row.ValueInBase = w.Balance.Mul(decimal.NewFromFloat(rate))
		}
		view.Wallets = append(view.Wallets, row)
	}
	view.TotalValue = pf.TotalValue(code, snap)
	return view, nil
}

func sortedWalletCodes(pf domain.Portfolio) []string {
	out := make([]string, 0, len(pf.Wallets))
	for code := range pf.Wallets {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// RateInfo is one resolved exchange rate with its reciprocal.
type RateInfo struct {
	From      string
	To        string
	Rate      float64
	Reverse   float64
	UpdatedAt time.Time
	Fresh     bool
}

// GetRate resolves from→to using the cache, deriving the reciprocal when
// only the reverse pair is stored. No authentication required.
func (s *WalletService) GetRate(from, to string) (RateInfo, error) {
	fromCode, err := domain.ValidateCurrencyCode(from)
	if err != nil {
		return RateInfo{}, err
	}
	toCode, err := domain.ValidateCurrencyCode(to)
	if err != nil {
		return RateInfo{}, err
	}
	snap := s.rates.LoadSnapshot()
	rate, err := snap.Rate(fromCode, toCode)
	if err != nil {
		return RateInfo{}, err
	}
	var reverse float64
	if rate != 0 {
		reverse = 1.0 / rate
	}
	return RateInfo{
		From:      fromCode,
		To:        toCode,
		Rate:      rate,
		Reverse:   reverse,
		UpdatedAt: snap.LastRefresh,
		Fresh:     s.rates.IsFresh(snap.LastRefresh, s.ttl),
	}, nil
}
