package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"money-ledger/app"
	"money-ledger/config"
	"money-ledger/shared"
	"money-ledger/store"
)

var (
	// Shared application service instance, built once per process so the
	// REPL keeps its accounts between commands.
	accountService *app.AccountService
	logger         *zap.Logger
	cfg            config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ledger-cli",
	Short: "A CLI for the immutable money ledger",
	Long: `ledger-cli manages single-currency accounts whose every change produces
a new immutable balance snapshot.

It allows opening checking, savings, money market and investment accounts,
depositing, withdrawing and transferring funds, trading stock, accruing
interest, quoting payment fees and querying balances and history.

Configuration is read from LEDGER_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initService()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func initService() error {
	if accountService != nil {
		return nil
	}
	var err error
	if cfg, err = config.Load(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if logger, err = cfg.NewLogger(); err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	accountService = app.NewAccountService(
		store.NewInMemoryLineageStore(),
		store.NewInMemoryPriceStore(nil),
		cfg,
		logger,
	)
	return nil
}

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL session",
	Long: `Starts an interactive Read-Eval-Print Loop session to interact with the ledger.
Accounts live in memory, so the REPL is the way to chain several commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Starting ledger CLI REPL. Type 'exit' or 'quit' to exit.")

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "exit" || input == "quit" {
				break
			}
			if input == "" {
				continue
			}

			// Simple whitespace split; quoted arguments are not supported.
			rootCmd.SetArgs(strings.Fields(input))
			if err := rootCmd.Execute(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			resetFlags(rootCmd)
		}

		fmt.Fprintln(out, "Exiting REPL.")
		return scanner.Err()
	},
}

// resetFlags restores every flag to its default so values from one REPL
// line do not leak into the next.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func parseAmount(flag, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s format: %q. %v", flag, value, err)
	}
	return amount, nil
}

// parseCurrency accepts an empty value, meaning the account's own currency.
func parseCurrency(value string) (shared.Currency, error) {
	if value == "" {
		return "", nil
	}
	return shared.ParseCurrency(value)
}
