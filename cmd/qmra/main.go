package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"goqmra/adapters/excel"
	"goqmra/app"
	"goqmra/internal"
	"goqmra/internal/config"
	"goqmra/internal/container"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qmra",
		Short: "Quantitative microbial risk assessment from the command line",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFile(".env")
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newReferenceCmd(),
		newPathogensCmd(),
		newDoseForRiskCmd(),
		newExportWorkbookCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newReferenceCmd() *cobra.Command {
	var seed int64
	var iterations int

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Run the built-in reference scenarios and print the batch result as JSON",
		Long: `Run the built-in reference scenarios (bathing beach, shellfish harvest,
drinking water, spray irrigation) as one batch.

Example: qmra reference --seed 7 --iterations 20000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			scenarios := app.ReferenceScenarios()
			for i := range scenarios {
				if cmd.Flags().Changed("seed") {
					s := seed + int64(i)
					scenarios[i].Seed = &s
				}
				scenarios[i].Iterations = iterations
			}

			result, err := c.Batches.Run(cmd.Context(), scenarios)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Base seed; scenario i uses seed+i")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Monte Carlo iterations per scenario (0 uses QMRA_ITERATIONS)")

	return cmd
}

func newPathogensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pathogens [name]",
		Short: "List the pathogen table, or show one pathogen",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			if len(args) == 1 {
				record, err := c.Assessments.Pathogen(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), record)
			}
			records, err := c.Assessments.Pathogens(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
}

func newDoseForRiskCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "dose-for-risk [pathogen] [target]",
		Short: "Invert a dose-response model at a target infection probability",
		Long: `Find the dose whose infection probability equals the target.

Example: qmra dose-for-risk norovirus 0.5 --model beta_binomial`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid target %q: %w", args[1], err)
			}

			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			result, err := c.Assessments.DoseForRisk(cmd.Context(), args[0], model, target)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Dose-response model (default: the pathogen's default model)")
	return cmd
}

func newExportWorkbookCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "export-workbook [path.xlsx]",
		Short: "Write the active pathogen table to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			records, err := c.Pathogens.ListPathogens(cmd.Context())
			if err != nil {
				return err
			}
			if err := excel.WritePathogenWorkbook(args[0], sheet, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pathogens to %s\n", len(records), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", excel.DefaultWorkbookConfig().Sheet, "Sheet name")
	return cmd
}

func newContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLoggerTo(os.Stderr, internal.ParseLogLevel(cfg.LogLevel))
	return container.New(ctx, cfg, logger)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
