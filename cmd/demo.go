package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"money-ledger/app"
	"money-ledger/domain"
	"money-ledger/shared"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted walkthrough of the ledger",
	Long: `Opens a checking, a savings and an investment account and runs deposits,
a transfer, stock trades, payment quotes, interest and a portfolio valuation,
printing each step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.OutOrStdout(), accountService)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(out io.Writer, svc *app.AccountService) error {
	fmt.Fprintln(out, "--- Simulating Operations ---")

	fmt.Fprintln(out, "\n[Step 1] Opening Accounts...")
	checkingID, err := svc.OpenAccount(app.OpenAccountCommand{AccountType: shared.Checking, InitialAmount: decimal.NewFromInt(1000)})
	if err != nil {
		return fmt.Errorf("failed to open checking account: %w", err)
	}
	savingsID, err := svc.OpenAccount(app.OpenAccountCommand{AccountType: shared.Savings, InitialAmount: decimal.NewFromInt(5000)})
	if err != nil {
		return fmt.Errorf("failed to open savings account: %w", err)
	}
	investmentID, err := svc.OpenAccount(app.OpenAccountCommand{AccountType: shared.Investment, InitialAmount: decimal.NewFromInt(10000)})
	if err != nil {
		return fmt.Errorf("failed to open investment account: %w", err)
	}
	showBalance(out, svc, "Checking", checkingID)
	showBalance(out, svc, "Savings", savingsID)
	showBalance(out, svc, "Investment", investmentID)

	fmt.Fprintln(out, "\n[Step 2] Payroll deposit...")
	_, err = svc.Deposit(app.DepositMoneyCommand{AccountID: checkingID, Amount: decimal.NewFromInt(500), Description: "Payroll deposit"})
	handleOperationError(out, "Deposit to checking", err)
	showBalance(out, svc, "Checking", checkingID)

	fmt.Fprintln(out, "\n[Step 3] Transferring to savings...")
	_, _, err = svc.TransferMoney(app.TransferMoneyCommand{
		SourceAccountID: checkingID,
		TargetAccountID: savingsID,
		Amount:          decimal.NewFromInt(200),
		Description:     "Emergency fund",
	})
	handleOperationError(out, "Transfer checking -> savings", err)
	showBalance(out, svc, "Checking", checkingID)
	showBalance(out, svc, "Savings", savingsID)

	fmt.Fprintln(out, "\n[Step 3b] Testing insufficient funds withdrawal (should fail)...")
	_, err = svc.Withdraw(app.WithdrawMoneyCommand{AccountID: checkingID, Amount: decimal.NewFromInt(100000)})
	if errors.Is(err, domain.ErrInsufficientFunds) {
		fmt.Fprintf(out, " -> Withdrawal failed as expected: %v\n", err)
	} else {
		return fmt.Errorf("expected insufficient funds, got %v", err)
	}

	fmt.Fprintln(out, "\n[Step 4] Investing...")
	inv, err := svc.BuyStock(app.BuyStockCommand{AccountID: investmentID, Symbol: "AAPL", Quantity: 10, PricePerShare: decimal.NewFromInt(150)})
	if err != nil {
		return fmt.Errorf("failed to buy AAPL: %w", err)
	}
	fmt.Fprintln(out, "After buying 10 AAPL at 150.00:")
	printHoldings(out, inv)

	inv, err = svc.SellStock(app.SellStockCommand{AccountID: investmentID, Symbol: "AAPL", Quantity: 5, PricePerShare: decimal.NewFromInt(160)})
	if err != nil {
		return fmt.Errorf("failed to sell AAPL: %w", err)
	}
	fmt.Fprintln(out, "After selling 5 AAPL at 160.00:")
	printHoldings(out, inv)

	fmt.Fprintln(out, "\nRecent investment transactions:")
	for _, r := range inv.TransactionHistory(3) {
		printTransaction(out, r)
	}

	fmt.Fprintln(out, "\n[Step 5] Payment Processing...")
	for _, method := range []string{app.CreditCardMethod, app.BankTransferMethod} {
		quote, err := svc.QuotePaymentFee(app.PaymentFeeQuery{Method: method, Amount: decimal.NewFromInt(100)})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s payment of %s, fee %s, total %s\n", method, quote.Amount, quote.Fee, quote.Total)
	}

	fmt.Fprintln(out, "\n[Step 6] Savings interest (2% APY, 30 days)...")
	interest, err := svc.GetInterest(app.GetInterestQuery{AccountID: savingsID, AnnualRate: decimal.RequireFromString("0.02"), Days: 30})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, " -> Interest: %s\n", interest)

	fmt.Fprintln(out, "\n[Step 7] Portfolio valuation (AAPL at 165.00)...")
	if err := svc.SetPrice(app.SetPriceCommand{Symbol: "AAPL", Price: decimal.NewFromInt(165)}); err != nil {
		return err
	}
	val, err := svc.GetPortfolioValue(app.GetPortfolioQuery{AccountID: investmentID})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, " -> Total portfolio value: %s (unrealised %s)\n", val.Total, val.Unrealized)

	fmt.Fprintln(out, "\n--- Simulation Complete ---")
	return nil
}

func handleOperationError(out io.Writer, operationName string, err error) {
	if err != nil {
		fmt.Fprintf(out, " -> ERROR during operation '%s': %v\n", operationName, err)
	} else {
		fmt.Fprintf(out, " -> Operation '%s' successful.\n", operationName)
	}
}

func showBalance(out io.Writer, svc *app.AccountService, name, accountID string) {
	balance, err := svc.GetCurrentBalance(app.GetBalanceQuery{AccountID: accountID})
	if err != nil {
		fmt.Fprintf(out, "  %s: error: %v\n", name, err)
		return
	}
	fmt.Fprintf(out, "  %s: %s\n", name, balance)
}
