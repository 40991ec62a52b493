package main

import (
	"fmt"
	"os"

	"ai-storyboard-be/internal/config"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/repository/memory"
	"ai-storyboard-be/internal/repository/unitofwork"
	"ai-storyboard-be/internal/service"
	"ai-storyboard-be/pkg/database"

	"github.com/spf13/cobra"
)

type commandContext struct {
	dsn    string
	tokens service.ITokenService
	users  service.IUserService
}

// ensureServices connects lazily so --help works without a database.
func (c *commandContext) ensureServices() error {
	if c.tokens != nil {
		return nil
	}
	if c.dsn == "" {
		return fmt.Errorf("database connection string is not set (use --dsn or DB_CONNECTION_STRING)")
	}

	db, err := database.NewGormDBFromDSN(c.dsn, false)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	cfg := config.Load()
	nop := logger.NewNopLogger()
	uowFactory := unitofwork.NewRepositoryFactory(db)

	// No event publisher: support adjustments don't push notifications.
	c.tokens = service.NewTokenService(uowFactory, nil, nop, service.TokenServiceConfig{
		SignupBonus:         cfg.Billing.SignupBonus,
		LowBalanceThreshold: cfg.Billing.LowBalanceAt,
	})
	c.users = service.NewUserService(uowFactory, c.tokens, memory.NewProvisionedUserCache(), nop)
	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inspect and adjust token ledgers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "packs" || cmd == cmd.Root() {
				return nil
			}
			return ctx.ensureServices()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.dsn, "dsn", os.Getenv("DB_CONNECTION_STRING"), "Postgres connection string")

	rootCmd.AddCommand(newBalanceCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newProvisionCommand(ctx))
	rootCmd.AddCommand(newCreditCommand(ctx))
	rootCmd.AddCommand(newPacksCommand())

	return rootCmd
}
