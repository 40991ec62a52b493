package main

import (
	"fmt"
	"strconv"
	"time"

	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const providerManual = "manual"

func parseUser(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", arg, err)
	}
	return id, nil
}

func newBalanceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <user-id>",
		Short: "Show a user's token balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userId, err := parseUser(args[0])
			if err != nil {
				return err
			}
			balance, err := ctx.tokens.GetTokenBalance(cmd.Context(), userId)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tokens\n", userId, balance)
			return nil
		},
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "List ledger entries, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userId, err := parseUser(args[0])
			if err != nil {
				return err
			}
			res, err := ctx.tokens.GetTransactionHistory(cmd.Context(), userId, page, pageSize)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(res))
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d entries)\n", res.Page, res.TotalPages, res.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "size", constant.DefaultHistoryPageSize, "Entries per page")
	return cmd
}

func newProvisionCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "provision <user-id>",
		Short: "Create the user row and grant the signup bonus if missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userId, err := parseUser(args[0])
			if err != nil {
				return err
			}
			if err := ctx.users.EnsureProvisioned(cmd.Context(), userId, email); err != nil {
				return err
			}
			balance, err := ctx.tokens.GetTokenBalance(cmd.Context(), userId)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "provisioned %s (%d tokens)\n", userId, balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "User email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// Credits go through the purchase path so a repeated --ref is applied once.
func newCreditCommand(ctx *commandContext) *cobra.Command {
	var packId, ref string

	cmd := &cobra.Command{
		Use:   "credit <user-id>",
		Short: "Credit a token pack, idempotent per --ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userId, err := parseUser(args[0])
			if err != nil {
				return err
			}
			if ref == "" {
				ref = "ledgerctl-" + strconv.FormatInt(time.Now().Unix(), 10)
			}

			res, err := ctx.tokens.ApplyPurchaseEvent(cmd.Context(), &dto.PurchaseEvent{
				EventId:   providerManual + ":" + ref,
				Provider:  providerManual,
				EventType: "manual_credit",
				UserId:    userId,
				PackId:    packId,
				InvoiceId: ref,
			})
			if err != nil {
				return err
			}
			if !res.Applied {
				fmt.Fprintf(cmd.OutOrStdout(), "reference %s was already applied\n", ref)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "credited %s, balance now %d\n", packId, res.NewBalance)
			return nil
		},
	}

	cmd.Flags().StringVar(&packId, "pack", "", "Token pack id")
	cmd.Flags().StringVar(&ref, "ref", "", "Support ticket or reference")
	_ = cmd.MarkFlagRequired("pack")
	return cmd
}

func newPacksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "packs",
		Short: "List the token pack catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderPacks(constant.TokenPacks))
			return nil
		},
	}
}
