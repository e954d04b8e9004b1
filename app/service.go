package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"money-ledger/config"
	"money-ledger/domain"
	"money-ledger/shared"
	"money-ledger/store"
)

const (
	CreditCardMethod   = "credit_card"
	BankTransferMethod = "bank_transfer"
)

var (
	ErrNotInvestmentAccount = domain.NewDomainError("not an investment account")
	ErrUnknownPaymentMethod = domain.NewDomainError("unknown payment method")
	ErrSameAccountTransfer  = domain.NewDomainError("cannot transfer funds to the same account")
)

// AccountService acts as the application layer, orchestrating commands and
// queries against the account lineages and the price board. Every command
// loads the head snapshot, applies one domain transition and appends the
// result with a compare-and-swap on the version it loaded.
type AccountService struct {
	lineages store.LineageStore
	prices   store.PriceStore
	payments map[string]domain.PaymentMethod
	cfg      config.Config
	clock    domain.Clock
	logger   *zap.Logger
}

type ServiceOption func(*AccountService)

func WithClock(c domain.Clock) ServiceOption {
	return func(s *AccountService) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPaymentMethod registers or replaces a payment method under name.
func WithPaymentMethod(name string, m domain.PaymentMethod) ServiceOption {
	return func(s *AccountService) {
		s.payments[name] = m
	}
}

func NewAccountService(ls store.LineageStore, ps store.PriceStore, cfg config.Config, logger *zap.Logger, opts ...ServiceOption) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ls == nil || ps == nil {
		logger.Fatal("LineageStore and PriceStore must not be nil")
	}
	s := &AccountService{
		lineages: ls,
		prices:   ps,
		payments: map[string]domain.PaymentMethod{
			CreditCardMethod:   domain.NewCreditCardPayment(cfg.CardFeeRate, logger),
			BankTransferMethod: domain.NewBankTransferPayment(cfg.BankFee(), logger),
		},
		cfg:    cfg,
		clock:  domain.SystemClock,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Command Handlers ---

func (s *AccountService) OpenAccount(cmd OpenAccountCommand) (string, error) {
	accountID := cmd.AccountID
	if accountID == "" {
		accountID = uuid.NewString()
		s.logger.Debug("no account ID provided, generated one", zap.String("account_id", accountID))
	}
	accountType := shared.Checking
	if cmd.AccountType != "" {
		parsed, err := shared.ParseAccountType(string(cmd.AccountType))
		if err != nil {
			return "", err
		}
		accountType = parsed
	}
	currency, err := resolveCurrency(cmd.Currency, s.cfg.BaseCurrency())
	if err != nil {
		return "", err
	}
	if cmd.InitialAmount.IsNegative() {
		return "", fmt.Errorf("%w: initial balance cannot be negative: %s", domain.ErrInvalidAmount, cmd.InitialAmount)
	}

	if _, found, err := s.lineages.GetLatest(accountID); err != nil {
		return "", fmt.Errorf("failed to check for existing account %s: %w", accountID, err)
	} else if found {
		s.logger.Warn("account creation attempt for existing account", zap.String("account_id", accountID))
		return "", fmt.Errorf("%w: %s", domain.ErrAccountExists, accountID)
	}

	initial := domain.NewMoney(cmd.InitialAmount, currency)
	var account domain.Account
	if accountType == shared.Investment {
		account = domain.NewInvestmentBalance(initial, domain.WithClock(s.clock))
	} else {
		account = domain.NewBalance(initial, accountType, domain.WithClock(s.clock))
	}

	if err := s.lineages.Create(accountID, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", fmt.Errorf("%w: %s", domain.ErrAccountExists, accountID)
		}
		return "", fmt.Errorf("failed to save account %s: %w", accountID, err)
	}

	s.logger.Info("account opened",
		zap.String("account_id", accountID),
		zap.String("account_type", string(accountType)),
		zap.Stringer("balance", initial))
	return accountID, nil
}

func (s *AccountService) Deposit(cmd DepositMoneyCommand) (domain.Account, error) {
	return s.apply(cmd.AccountID, "deposit", func(acct domain.Account) (domain.Account, error) {
		amount, err := positiveMoney(cmd.Amount, cmd.Currency, acct.Currency())
		if err != nil {
			return nil, err
		}
		return domain.DepositAccount(acct, amount, cmd.Description)
	})
}

func (s *AccountService) Withdraw(cmd WithdrawMoneyCommand) (domain.Account, error) {
	return s.apply(cmd.AccountID, "withdrawal", func(acct domain.Account) (domain.Account, error) {
		amount, err := positiveMoney(cmd.Amount, cmd.Currency, acct.Currency())
		if err != nil {
			return nil, err
		}
		return domain.WithdrawAccount(acct, amount, cmd.Description)
	})
}

// TransferMoney appends to the source lineage and then to the target
// lineage. The two appends are not atomic: if the second one fails the
// source stays debited and the error says so.
func (s *AccountService) TransferMoney(cmd TransferMoneyCommand) (domain.Account, domain.Account, error) {
	if cmd.SourceAccountID == cmd.TargetAccountID {
		return nil, nil, fmt.Errorf("%w: %s", ErrSameAccountTransfer, cmd.SourceAccountID)
	}
	source, err := s.loadAccount(cmd.SourceAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load source account %s for transfer: %w", cmd.SourceAccountID, err)
	}
	target, err := s.loadAccount(cmd.TargetAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load target account %s for transfer: %w", cmd.TargetAccountID, err)
	}

	amount, err := positiveMoney(cmd.Amount, cmd.Currency, source.Currency())
	if err != nil {
		return nil, nil, fmt.Errorf("transfer command failed for source account %s: %w", cmd.SourceAccountID, err)
	}
	newSource, newTarget, err := domain.TransferAccounts(source, target, amount, cmd.Description)
	if err != nil {
		s.logger.Info("transfer rejected",
			zap.String("source_account_id", cmd.SourceAccountID),
			zap.String("target_account_id", cmd.TargetAccountID),
			zap.Error(err))
		return nil, nil, fmt.Errorf("transfer command failed from %s to %s: %w", cmd.SourceAccountID, cmd.TargetAccountID, err)
	}

	if err := s.lineages.Append(cmd.SourceAccountID, source.Version(), newSource); err != nil {
		return nil, nil, fmt.Errorf("failed to save transfer debit for account %s: %w", cmd.SourceAccountID, err)
	}
	if err := s.lineages.Append(cmd.TargetAccountID, target.Version(), newTarget); err != nil {
		s.logger.Error("transfer partially applied: source debited but target credit not saved",
			zap.String("source_account_id", cmd.SourceAccountID),
			zap.String("target_account_id", cmd.TargetAccountID),
			zap.Stringer("amount", amount),
			zap.Error(err))
		return newSource, nil, fmt.Errorf("failed to save transfer credit for account %s: %w. Source account %s was debited", cmd.TargetAccountID, err, cmd.SourceAccountID)
	}

	s.logger.Info("transfer applied",
		zap.String("source_account_id", cmd.SourceAccountID),
		zap.String("target_account_id", cmd.TargetAccountID),
		zap.Stringer("amount", amount))
	return newSource, newTarget, nil
}

func (s *AccountService) BuyStock(cmd BuyStockCommand) (domain.InvestmentBalance, error) {
	next, err := s.apply(cmd.AccountID, "buy", func(acct domain.Account) (domain.Account, error) {
		inv, err := asInvestment(cmd.AccountID, acct)
		if err != nil {
			return nil, err
		}
		price, err := positiveMoney(cmd.PricePerShare, cmd.Currency, acct.Currency())
		if err != nil {
			return nil, err
		}
		return inv.BuyStock(cmd.Symbol, cmd.Quantity, price)
	})
	if err != nil {
		return domain.InvestmentBalance{}, err
	}
	return next.(domain.InvestmentBalance), nil
}

func (s *AccountService) SellStock(cmd SellStockCommand) (domain.InvestmentBalance, error) {
	next, err := s.apply(cmd.AccountID, "sell", func(acct domain.Account) (domain.Account, error) {
		inv, err := asInvestment(cmd.AccountID, acct)
		if err != nil {
			return nil, err
		}
		price, err := positiveMoney(cmd.PricePerShare, cmd.Currency, acct.Currency())
		if err != nil {
			return nil, err
		}
		return inv.SellStock(cmd.Symbol, cmd.Quantity, price)
	})
	if err != nil {
		return domain.InvestmentBalance{}, err
	}
	inv := next.(domain.InvestmentBalance)
	if last := inv.TransactionHistory(1); len(last) == 1 && last[0].GainLoss != nil {
		s.logger.Info("realised gain/loss",
			zap.String("account_id", cmd.AccountID),
			zap.String("symbol", cmd.Symbol),
			zap.Stringer("gain_loss", *last[0].GainLoss))
	}
	return inv, nil
}

// AccrueInterest deposits the interest CalculateInterest yields on the head
// snapshot. Accounts that do not accrue are returned unchanged.
func (s *AccountService) AccrueInterest(cmd AccrueInterestCommand) (domain.Account, error) {
	days := cmd.Days
	if days <= 0 {
		days = s.cfg.InterestDays
	}
	description := fmt.Sprintf("Interest at %s%% for %d days", cmd.AnnualRate.Shift(2).String(), days)
	return s.apply(cmd.AccountID, "interest", func(acct domain.Account) (domain.Account, error) {
		interest := acct.Base().CalculateInterest(cmd.AnnualRate, days)
		if interest.IsZero() {
			s.logger.Debug("no interest accrued", zap.String("account_id", cmd.AccountID), zap.String("account_type", string(acct.AccountType())))
			return acct, nil
		}
		return domain.DepositAccount(acct, interest, description)
	})
}

func (s *AccountService) SetPrice(cmd SetPriceCommand) error {
	price, err := positiveMoney(cmd.Price, cmd.Currency, s.cfg.BaseCurrency())
	if err != nil {
		return fmt.Errorf("invalid price for %s: %w", cmd.Symbol, err)
	}
	if err := s.prices.SetPrice(cmd.Symbol, price); err != nil {
		return fmt.Errorf("failed to set price for %s: %w", cmd.Symbol, err)
	}
	s.logger.Debug("price updated", zap.String("symbol", cmd.Symbol), zap.Stringer("price", price))
	return nil
}

type PaymentQuote struct {
	Method string
	Amount domain.Money
	Fee    domain.Money
	Total  domain.Money
}

func (s *AccountService) ProcessPayment(cmd ProcessPaymentCommand) (PaymentQuote, error) {
	quote, err := s.QuotePaymentFee(PaymentFeeQuery(cmd))
	if err != nil {
		return PaymentQuote{}, err
	}
	if ok := s.payments[quote.Method].ProcessPayment(quote.Amount); !ok {
		return PaymentQuote{}, fmt.Errorf("%s payment of %s was not accepted", quote.Method, quote.Amount)
	}
	return quote, nil
}

// --- Query Handlers ---

func (s *AccountService) GetAccount(accountID string) (domain.Account, error) {
	return s.loadAccount(accountID)
}

func (s *AccountService) GetCurrentBalance(query GetBalanceQuery) (domain.Money, error) {
	account, err := s.loadAccount(query.AccountID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("cannot get balance: %w", err)
	}
	return account.Amount(), nil
}

func (s *AccountService) GetTransactionHistory(query GetHistoryQuery) ([]domain.TransactionRecord, error) {
	if query.Limit < 0 {
		return nil, fmt.Errorf("history limit cannot be negative: %d", query.Limit)
	}
	account, err := s.loadAccount(query.AccountID)
	if err != nil {
		return nil, fmt.Errorf("cannot get history: %w", err)
	}
	switch {
	case query.All:
		return account.Transactions(), nil
	case query.Limit == 0:
		return account.TransactionHistory(s.cfg.HistoryLimit), nil
	default:
		return account.TransactionHistory(query.Limit), nil
	}
}

func (s *AccountService) GetInterest(query GetInterestQuery) (domain.Money, error) {
	account, err := s.loadAccount(query.AccountID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("cannot calculate interest: %w", err)
	}
	days := query.Days
	if days <= 0 {
		days = s.cfg.InterestDays
	}
	return account.Base().CalculateInterest(query.AnnualRate, days), nil
}

type PortfolioValuation struct {
	Cash       domain.Money
	Total      domain.Money
	Unrealized domain.Money
	Holdings   map[string]int64
	CostBasis  map[string]domain.Money
	// Unpriced lists held symbols with no quote; they are left out of Total.
	Unpriced []string
}

func (s *AccountService) GetPortfolioValue(query GetPortfolioQuery) (PortfolioValuation, error) {
	account, err := s.loadAccount(query.AccountID)
	if err != nil {
		return PortfolioValuation{}, fmt.Errorf("cannot value portfolio: %w", err)
	}
	inv, err := asInvestment(query.AccountID, account)
	if err != nil {
		return PortfolioValuation{}, err
	}

	prices := s.prices.Prices()
	total, err := inv.PortfolioValue(prices)
	if err != nil {
		return PortfolioValuation{}, fmt.Errorf("cannot value portfolio %s: %w", query.AccountID, err)
	}
	unrealized, err := inv.UnrealizedGainLoss(prices)
	if err != nil {
		return PortfolioValuation{}, fmt.Errorf("cannot value portfolio %s: %w", query.AccountID, err)
	}

	var unpriced []string
	for _, sym := range inv.Symbols() {
		if _, ok := prices[sym]; !ok {
			unpriced = append(unpriced, sym)
		}
	}
	if len(unpriced) > 0 {
		s.logger.Warn("symbols without price excluded from valuation",
			zap.String("account_id", query.AccountID),
			zap.Strings("symbols", unpriced))
	}

	return PortfolioValuation{
		Cash:       inv.Amount(),
		Total:      total,
		Unrealized: unrealized,
		Holdings:   inv.Holdings(),
		CostBasis:  inv.CostBasis(),
		Unpriced:   unpriced,
	}, nil
}

func (s *AccountService) GetStatement(query GetStatementQuery) (domain.Statement, error) {
	account, err := s.loadAccount(query.AccountID)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("cannot build statement: %w", err)
	}
	limit := query.Limit
	if limit == 0 {
		limit = s.cfg.HistoryLimit
	}
	return domain.CreateStatement(query.AccountID, account, limit), nil
}

// GetLineage returns every snapshot of the account, oldest first.
func (s *AccountService) GetLineage(query GetLineageQuery) ([]domain.Account, error) {
	lineage, err := s.lineages.GetLineage(query.AccountID)
	if err != nil {
		return nil, fmt.Errorf("cannot get lineage: %w", err)
	}
	return lineage, nil
}

type AccountSummary struct {
	ID          string
	AccountType shared.AccountType
	Balance     domain.Money
	Version     int
}

func (s *AccountService) ListAccounts() ([]AccountSummary, error) {
	ids := s.lineages.AccountIDs()
	out := make([]AccountSummary, 0, len(ids))
	for _, id := range ids {
		acct, err := s.loadAccount(id)
		if err != nil {
			return nil, err
		}
		out = append(out, AccountSummary{ID: id, AccountType: acct.AccountType(), Balance: acct.Amount(), Version: acct.Version()})
	}
	return out, nil
}

func (s *AccountService) QuotePaymentFee(query PaymentFeeQuery) (PaymentQuote, error) {
	method, ok := s.payments[query.Method]
	if !ok {
		known := make([]string, 0, len(s.payments))
		for name := range s.payments {
			known = append(known, name)
		}
		slices.Sort(known)
		return PaymentQuote{}, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownPaymentMethod, query.Method, known)
	}
	amount, err := positiveMoney(query.Amount, query.Currency, s.cfg.BaseCurrency())
	if err != nil {
		return PaymentQuote{}, fmt.Errorf("invalid payment amount: %w", err)
	}
	fee, err := method.Fees(amount)
	if err != nil {
		return PaymentQuote{}, fmt.Errorf("cannot compute %s fee: %w", query.Method, err)
	}
	total, err := amount.Add(fee)
	if err != nil {
		return PaymentQuote{}, err
	}
	return PaymentQuote{Method: query.Method, Amount: amount, Fee: fee, Total: total}, nil
}

// --- Loading & Helpers ---

func (s *AccountService) loadAccount(accountID string) (domain.Account, error) {
	account, found, err := s.lineages.GetLatest(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}
	return account, nil
}

func (s *AccountService) apply(accountID, op string, transition func(domain.Account) (domain.Account, error)) (domain.Account, error) {
	current, err := s.loadAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s for %s: %w", accountID, op, err)
	}

	next, err := transition(current)
	if err != nil {
		s.logger.Info(op+" rejected", zap.String("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("%s command failed for account %s: %w", op, accountID, err)
	}
	if next.Version() == current.Version() {
		return current, nil
	}

	if err := s.lineages.Append(accountID, current.Version(), next); err != nil {
		return nil, fmt.Errorf("failed to save %s for account %s: %w", op, accountID, err)
	}

	s.logger.Info(op+" applied",
		zap.String("account_id", accountID),
		zap.Int("version", next.Version()),
		zap.Stringer("balance", next.Amount()))
	return next, nil
}

// resolveCurrency validates a command currency; empty means fallback.
func resolveCurrency(currency, fallback shared.Currency) (shared.Currency, error) {
	if currency == "" {
		return fallback, nil
	}
	return shared.ParseCurrency(string(currency))
}

// positiveMoney builds a command amount, which must be positive after
// quantization.
func positiveMoney(amount decimal.Decimal, currency, fallback shared.Currency) (domain.Money, error) {
	cur, err := resolveCurrency(currency, fallback)
	if err != nil {
		return domain.Money{}, err
	}
	m := domain.NewMoney(amount, cur)
	if !m.IsPositive() {
		return domain.Money{}, fmt.Errorf("%w: amount must be positive: %s", domain.ErrInvalidAmount, m)
	}
	return m, nil
}

func asInvestment(accountID string, acct domain.Account) (domain.InvestmentBalance, error) {
	inv, ok := acct.(domain.InvestmentBalance)
	if !ok {
		return domain.InvestmentBalance{}, fmt.Errorf("%w: account %s is a %s account", ErrNotInvestmentAccount, accountID, acct.AccountType())
	}
	return inv, nil
}
