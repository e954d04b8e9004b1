package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"money-ledger/app"
	"money-ledger/shared"
)

var (
	accountID       string
	accountTypeFlag string
	initialAmount   string
	accountCurrency string
)

// accountCmd represents the account command group
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
	Long:  `Provides commands to open and list accounts.`,
}

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a new account",
	Long: `Opens a new account of the given type with an initial balance.
If --id is not provided, a new UUID will be generated.
Supported types: checking, savings, money_market, investment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		accountType, err := shared.ParseAccountType(accountTypeFlag)
		if err != nil {
			return err
		}
		currency, err := parseCurrency(accountCurrency)
		if err != nil {
			return err
		}
		amount, err := parseAmount("initial amount", initialAmount)
		if err != nil {
			return err
		}

		id, err := accountService.OpenAccount(app.OpenAccountCommand{
			AccountID:     accountID,
			AccountType:   accountType,
			InitialAmount: amount,
			Currency:      currency,
		})
		if err != nil {
			return fmt.Errorf("failed to open account: %w", err)
		}

		acct, err := accountService.GetAccount(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account '%s' (%s) opened with %s.\n", id, acct.AccountType(), acct.Amount())
		return nil
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := accountService.ListAccounts()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No accounts.")
			return nil
		}
		for _, s := range summaries {
			fmt.Fprintf(out, "  %-36s  %-12s  %18s  (v%d)\n", s.ID, s.AccountType, s.Balance, s.Version)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(openCmd)
	accountCmd.AddCommand(listCmd)

	openCmd.Flags().StringVar(&accountID, "id", "", "Optional unique ID for the account (UUID generated if empty)")
	openCmd.Flags().StringVarP(&accountTypeFlag, "type", "t", string(shared.Checking), "Account type (checking, savings, money_market, investment)")
	openCmd.Flags().StringVarP(&initialAmount, "amount", "a", "0", "Initial balance")
	openCmd.Flags().StringVar(&accountCurrency, "currency", "", "ISO currency code (defaults to LEDGER_CURRENCY)")
}
