package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"money-ledger/app"
	"money-ledger/domain"
)

// Variables for query flags
var (
	queryAccountID string
	queryLimit     int
	queryAll       bool
	queryRate      string
	queryDays      int
	queryApply     bool
)

// queryCmd represents the query command group
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query account information",
	Long:  `Provides commands to query balances, transaction history, interest, statements and snapshot lineage.`,
}

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Get the current balance of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		balance, err := accountService.GetCurrentBalance(app.GetBalanceQuery{AccountID: queryAccountID})
		if err != nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account '%s' Balance: %s\n", queryAccountID, balance)
		return nil
	},
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Get the most recent transactions of an account",
	Long: `Retrieves the last --limit transactions in chronological order.
A limit of 0 uses LEDGER_HISTORY_LIMIT; --all returns the whole log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := accountService.GetTransactionHistory(app.GetHistoryQuery{
			AccountID: queryAccountID,
			Limit:     queryLimit,
			All:       queryAll,
		})
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(history) == 0 {
			fmt.Fprintf(out, "No transactions recorded for account '%s'.\n", queryAccountID)
			return nil
		}
		fmt.Fprintf(out, "Transaction History for Account '%s':\n", queryAccountID)
		fmt.Fprintln(out, "--------------------------------------------------")
		for _, r := range history {
			printTransaction(out, r)
		}
		return nil
	},
}

// interestCmd represents the interest command
var interestCmd = &cobra.Command{
	Use:   "interest",
	Short: "Calculate simple interest on an account",
	Long: `Calculates balance * rate * days / 365. Only savings and money market
accounts accrue; other types report zero. With --apply the interest is
deposited into the account.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := parseAmount("rate", queryRate)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if queryApply {
			next, err := accountService.AccrueInterest(app.AccrueInterestCommand{AccountID: queryAccountID, AnnualRate: rate, Days: queryDays})
			if err != nil {
				return fmt.Errorf("failed to accrue interest: %w", err)
			}
			fmt.Fprintf(out, "Account '%s' balance after interest: %s (v%d)\n", queryAccountID, next.Amount(), next.Version())
			return nil
		}
		interest, err := accountService.GetInterest(app.GetInterestQuery{AccountID: queryAccountID, AnnualRate: rate, Days: queryDays})
		if err != nil {
			return fmt.Errorf("failed to calculate interest: %w", err)
		}
		fmt.Fprintf(out, "Interest for account '%s': %s\n", queryAccountID, interest)
		return nil
	},
}

// statementCmd prints the JSON statement of the latest snapshot.
var statementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Print a JSON statement of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := accountService.GetStatement(app.GetStatementQuery{AccountID: queryAccountID, Limit: queryLimit})
		if err != nil {
			return fmt.Errorf("failed to build statement: %w", err)
		}
		data, err := st.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// lineageCmd lists every snapshot the account has gone through.
var lineageCmd = &cobra.Command{
	Use:   "lineage",
	Short: "List every balance snapshot of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		lineage, err := accountService.GetLineage(app.GetLineageQuery{AccountID: queryAccountID})
		if err != nil {
			return fmt.Errorf("failed to get lineage: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, snap := range lineage {
			fmt.Fprintf(out, "  v%-4d %s\n", snap.Version(), snap.Amount())
		}
		return nil
	},
}

func printTransaction(out io.Writer, r domain.TransactionRecord) {
	fmt.Fprintf(out, "%d. [%s] %s %s - %s\n", r.Sequence, r.Timestamp.Format(time.RFC3339), r.Kind, r.Amount, r.Description)
	fmt.Fprintf(out, "   Balance after: %s\n", r.BalanceAfter)
	if r.HasGainLoss() {
		fmt.Fprintf(out, "   Gain/Loss: %s\n", r.GainLoss)
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(balanceCmd, historyCmd, interestCmd, statementCmd, lineageCmd)

	for _, c := range []*cobra.Command{balanceCmd, historyCmd, interestCmd, statementCmd, lineageCmd} {
		c.Flags().StringVar(&queryAccountID, "id", "", "Account ID to query (required)")
		_ = c.MarkFlagRequired("id")
	}

	historyCmd.Flags().IntVar(&queryLimit, "limit", 0, "Number of most recent transactions (0 for the configured default)")
	historyCmd.Flags().BoolVar(&queryAll, "all", false, "Return the whole transaction log")
	statementCmd.Flags().IntVar(&queryLimit, "limit", 0, "Number of transactions to include (0 for the configured default)")

	interestCmd.Flags().StringVar(&queryRate, "rate", "", "Annual rate as a fraction, e.g. 0.02 (required)")
	interestCmd.Flags().IntVar(&queryDays, "days", 0, "Days of accrual (0 for LEDGER_INTEREST_DAYS)")
	interestCmd.Flags().BoolVar(&queryApply, "apply", false, "Deposit the interest into the account")
	_ = interestCmd.MarkFlagRequired("rate")
}
