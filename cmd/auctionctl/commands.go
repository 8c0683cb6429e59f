package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/cycling-auction/internal/app"
	"github.com/riskibarqy/cycling-auction/internal/infrastructure/cyclistcsv"
)

func newImportCyclistsCmd(env environmentFunc) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-cyclists <csv>",
		Short: "Import or update the cyclist catalog from a CSV file",
		Long: `Reads a CSV with rider name, team and minimum price columns
(Coureur, Équipe, Prix min) and upserts the catalog by rider name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := cyclistcsv.ReadFile(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "parsed %d cyclist(s) from %s\n", len(rows), args[0])
				return nil
			}

			return withContainer(cmd, env, func(ctx context.Context, c *app.Container) error {
				result, err := c.Cyclists.ImportCyclists(ctx, rows)
				if err != nil {
					return fmt.Errorf("import cyclists: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without writing")
	return cmd
}

func newResolveCmd(env environmentFunc) *cobra.Command {
	var (
		leagueID string
		round    int
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one auction round",
		Long:  `Resolves a round of a league. Resolving an already closed round prints the stored allocation.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, env, func(ctx context.Context, c *app.Container) error {
				if round == 0 {
					readiness, err := c.Auctions.CheckReadiness(ctx, leagueID)
					if err != nil {
						return err
					}
					if readiness.RoundNumber == 0 {
						return fmt.Errorf("league %s has no active round", leagueID)
					}
					round = readiness.RoundNumber
				}

				res, err := c.Auctions.ResolveRound(ctx, leagueID, round)
				if err != nil {
					return fmt.Errorf("resolve round %d: %w", round, err)
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&leagueID, "league", "", "league id")
	cmd.Flags().IntVar(&round, "round", 0, "round number (defaults to the active round)")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

func newSweepCmd(env environmentFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Resolve every league whose active round is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, env, func(ctx context.Context, c *app.Container) error {
				result, err := c.Auctions.Sweep(ctx)
				if err != nil {
					return fmt.Errorf("sweep: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}
