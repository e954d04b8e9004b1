package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"money-ledger/app"
)

// Variables to hold flag values for transaction commands
var (
	txAccountID   string // Use a different name to avoid conflict with account.go's accountID
	txCurrency    string
	txAmountStr   string
	txDescription string
	txFromID      string
	txToID        string
)

// transactionCmd represents the transaction command group
var transactionCmd = &cobra.Command{
	Use:   "transaction",
	Short: "Perform financial transactions",
	Long:  `Provides commands for depositing, withdrawing and transferring funds between accounts.`,
}

// depositCmd represents the deposit command
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit funds into an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, err := parseCurrency(txCurrency)
		if err != nil {
			return err
		}
		amount, err := parseAmount("amount", txAmountStr)
		if err != nil {
			return err
		}

		next, err := accountService.Deposit(app.DepositMoneyCommand{
			AccountID:   txAccountID,
			Amount:      amount,
			Currency:    currency,
			Description: txDescription,
		})
		if err != nil {
			return fmt.Errorf("failed to deposit funds: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deposited into '%s'. New balance: %s (v%d)\n", txAccountID, next.Amount(), next.Version())
		return nil
	},
}

// withdrawCmd represents the withdraw command
var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw funds from an account",
	Long:  `Removes a specified amount from an account's balance, checking for sufficient funds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, err := parseCurrency(txCurrency)
		if err != nil {
			return err
		}
		amount, err := parseAmount("amount", txAmountStr)
		if err != nil {
			return err
		}

		next, err := accountService.Withdraw(app.WithdrawMoneyCommand{
			AccountID:   txAccountID,
			Amount:      amount,
			Currency:    currency,
			Description: txDescription,
		})
		if err != nil {
			return fmt.Errorf("failed to withdraw funds: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Withdrew from '%s'. New balance: %s (v%d)\n", txAccountID, next.Amount(), next.Version())
		return nil
	},
}

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer funds between two accounts",
	Long: `Withdraws from the source account and deposits into the target account.
Both accounts must hold the transfer currency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, err := parseCurrency(txCurrency)
		if err != nil {
			return err
		}
		amount, err := parseAmount("amount", txAmountStr)
		if err != nil {
			return err
		}

		src, dst, err := accountService.TransferMoney(app.TransferMoneyCommand{
			SourceAccountID: txFromID,
			TargetAccountID: txToID,
			Amount:          amount,
			Currency:        currency,
			Description:     txDescription,
		})
		if err != nil {
			return fmt.Errorf("failed to transfer funds: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Transfer complete.")
		fmt.Fprintf(out, "  %s: %s\n", txFromID, src.Amount())
		fmt.Fprintf(out, "  %s: %s\n", txToID, dst.Amount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transactionCmd)
	transactionCmd.AddCommand(depositCmd, withdrawCmd, transferCmd)

	for _, c := range []*cobra.Command{depositCmd, withdrawCmd} {
		c.Flags().StringVar(&txAccountID, "id", "", "Account ID (required)")
		c.Flags().StringVar(&txAmountStr, "amount", "", "Amount (required)")
		c.Flags().StringVar(&txCurrency, "currency", "", "Currency code (defaults to the account's currency)")
		c.Flags().StringVarP(&txDescription, "description", "d", "", "Optional description")
		_ = c.MarkFlagRequired("id")
		_ = c.MarkFlagRequired("amount")
	}

	transferCmd.Flags().StringVar(&txFromID, "from-id", "", "Source account ID (required)")
	transferCmd.Flags().StringVar(&txToID, "to-id", "", "Target account ID (required)")
	transferCmd.Flags().StringVar(&txAmountStr, "amount", "", "Amount to transfer (required)")
	transferCmd.Flags().StringVar(&txCurrency, "currency", "", "Currency code (defaults to the source account's currency)")
	transferCmd.Flags().StringVarP(&txDescription, "description", "d", "", "Optional description")
	_ = transferCmd.MarkFlagRequired("from-id")
	_ = transferCmd.MarkFlagRequired("to-id")
	_ = transferCmd.MarkFlagRequired("amount")
}
