package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"money-ledger/app"
)

var (
	payMethod   string
	payAmount   string
	payCurrency string
)

// paymentCmd represents the payment command group
var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Quote and process payments",
	Long:  `Supported methods: credit_card (percentage fee) and bank_transfer (flat fee).`,
}

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Quote the fee and total charge of a payment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPayment(cmd, false)
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a payment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPayment(cmd, true)
	},
}

func runPayment(cmd *cobra.Command, process bool) error {
	amount, err := parseAmount("amount", payAmount)
	if err != nil {
		return err
	}
	currency, err := parseCurrency(payCurrency)
	if err != nil {
		return err
	}

	var quote app.PaymentQuote
	if process {
		quote, err = accountService.ProcessPayment(app.ProcessPaymentCommand{Method: payMethod, Amount: amount, Currency: currency})
	} else {
		quote, err = accountService.QuotePaymentFee(app.PaymentFeeQuery{Method: payMethod, Amount: amount, Currency: currency})
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s payment of %s\n", quote.Method, quote.Amount)
	fmt.Fprintf(out, "Processing fee: %s\n", quote.Fee)
	fmt.Fprintf(out, "Total charge: %s\n", quote.Total)
	return nil
}

func init() {
	rootCmd.AddCommand(paymentCmd)
	paymentCmd.AddCommand(feesCmd, processCmd)

	for _, c := range []*cobra.Command{feesCmd, processCmd} {
		c.Flags().StringVarP(&payMethod, "method", "m", app.CreditCardMethod, "Payment method (credit_card, bank_transfer)")
		c.Flags().StringVar(&payAmount, "amount", "", "Payment amount (required)")
		c.Flags().StringVar(&payCurrency, "currency", "", "Currency code (defaults to LEDGER_CURRENCY)")
		_ = c.MarkFlagRequired("amount")
	}
}
