package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"money-ledger/app"
	"money-ledger/domain"
)

var (
	invAccountID string
	invSymbol    string
	invQuantity  int64
	invPrice     string
	invCurrency  string
)

// investCmd represents the invest command group
var investCmd = &cobra.Command{
	Use:   "invest",
	Short: "Trade stock in an investment account",
}

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy shares out of the account's cash",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := parseAmount("price", invPrice)
		if err != nil {
			return err
		}
		currency, err := parseCurrency(invCurrency)
		if err != nil {
			return err
		}
		inv, err := accountService.BuyStock(app.BuyStockCommand{
			AccountID:     invAccountID,
			Symbol:        invSymbol,
			Quantity:      invQuantity,
			PricePerShare: price,
			Currency:      currency,
		})
		if err != nil {
			return fmt.Errorf("failed to buy stock: %w", err)
		}
		printHoldings(cmd.OutOrStdout(), inv)
		return nil
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Sell shares and record the realised gain or loss",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := parseAmount("price", invPrice)
		if err != nil {
			return err
		}
		currency, err := parseCurrency(invCurrency)
		if err != nil {
			return err
		}
		inv, err := accountService.SellStock(app.SellStockCommand{
			AccountID:     invAccountID,
			Symbol:        invSymbol,
			Quantity:      invQuantity,
			PricePerShare: price,
			Currency:      currency,
		})
		if err != nil {
			return fmt.Errorf("failed to sell stock: %w", err)
		}
		out := cmd.OutOrStdout()
		if last := inv.TransactionHistory(1); len(last) == 1 && last[0].HasGainLoss() {
			fmt.Fprintf(out, "Realised gain/loss: %s\n", last[0].GainLoss)
		}
		printHoldings(out, inv)
		return nil
	},
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Value the portfolio at the current prices",
	Long:  `Values cash plus every held symbol that has a price set with 'price set'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		val, err := accountService.GetPortfolioValue(app.GetPortfolioQuery{AccountID: invAccountID})
		if err != nil {
			return fmt.Errorf("failed to value portfolio: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cash:            %s\n", val.Cash)
		fmt.Fprintf(out, "Portfolio value: %s\n", val.Total)
		fmt.Fprintf(out, "Unrealised P/L:  %s\n", val.Unrealized)
		if len(val.Unpriced) > 0 {
			fmt.Fprintf(out, "Not priced:      %v\n", val.Unpriced)
		}
		return nil
	},
}

// priceCmd represents the price command group
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Maintain the market price board",
}

var priceSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the current price of a symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := parseAmount("price", invPrice)
		if err != nil {
			return err
		}
		currency, err := parseCurrency(invCurrency)
		if err != nil {
			return err
		}
		if err := accountService.SetPrice(app.SetPriceCommand{Symbol: invSymbol, Price: price, Currency: currency}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Price for %s set to %s.\n", invSymbol, price.StringFixed(domain.Places))
		return nil
	},
}

func printHoldings(out io.Writer, inv domain.InvestmentBalance) {
	fmt.Fprintf(out, "Cash: %s\n", inv.Amount())
	if len(inv.Symbols()) == 0 {
		fmt.Fprintln(out, "  (No holdings)")
		return
	}
	for _, sym := range inv.Symbols() {
		avg, _ := inv.AverageCost(sym)
		fmt.Fprintf(out, "  %-6s %6d @ avg %s\n", sym, inv.Quantity(sym), avg)
	}
}

func init() {
	rootCmd.AddCommand(investCmd)
	investCmd.AddCommand(buyCmd, sellCmd, valueCmd)
	rootCmd.AddCommand(priceCmd)
	priceCmd.AddCommand(priceSetCmd)

	for _, c := range []*cobra.Command{buyCmd, sellCmd} {
		c.Flags().StringVar(&invAccountID, "id", "", "Investment account ID (required)")
		c.Flags().StringVarP(&invSymbol, "symbol", "s", "", "Ticker symbol (required)")
		c.Flags().Int64VarP(&invQuantity, "quantity", "q", 0, "Number of shares (required)")
		c.Flags().StringVarP(&invPrice, "price", "p", "", "Price per share (required)")
		c.Flags().StringVar(&invCurrency, "currency", "", "Currency of the price (defaults to the account's currency)")
		_ = c.MarkFlagRequired("id")
		_ = c.MarkFlagRequired("symbol")
		_ = c.MarkFlagRequired("quantity")
		_ = c.MarkFlagRequired("price")
	}

	valueCmd.Flags().StringVar(&invAccountID, "id", "", "Investment account ID (required)")
	_ = valueCmd.MarkFlagRequired("id")

	priceSetCmd.Flags().StringVarP(&invSymbol, "symbol", "s", "", "Ticker symbol (required)")
	priceSetCmd.Flags().StringVarP(&invPrice, "price", "p", "", "Current price (required)")
	priceSetCmd.Flags().StringVar(&invCurrency, "currency", "", "Currency code (defaults to LEDGER_CURRENCY)")
	_ = priceSetCmd.MarkFlagRequired("symbol")
	_ = priceSetCmd.MarkFlagRequired("price")
}
