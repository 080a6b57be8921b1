package cmd

import (
	"fmt"
	"time"

	"survey-stats/internal/filter"
	"survey-stats/internal/schema"
	"survey-stats/internal/seed"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	seedCount    int
	seedFamilies []string
	seedClean    bool
	seedDryRun   bool
	seedFrom     string
	seedTo       string
	seedRandom   int64
)

// selectFamilies resolves --families, defaulting to every family.
func selectFamilies(names []string) ([]schema.Family, error) {
	if len(names) == 0 {
		return schema.Families(), nil
	}
	out := make([]schema.Family, 0, len(names))
	for _, n := range names {
		f, err := schema.ParseFamily(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the family tables and fill them with generated surveys",
	RunE: func(cmd *cobra.Command, args []string) error {
		families, err := selectFamilies(seedFamilies)
		if err != nil {
			return err
		}
		dates, err := filter.ParseDateRange(seedFrom, seedTo)
		if err != nil {
			return err
		}

		// Fetch count from Viper (Flag > Config > Default)
		targetCount := viper.GetInt("settings.seed_count")
		if seedCount > 0 {
			targetCount = seedCount
		}

		// Dry Run
		if seedDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "[SIMULATION] Dry-Run Mode Active: No data will be written.")
			for i, f := range families {
				fs := schema.MustGet(f)
				fmt.Fprintf(cmd.OutOrStdout(), "[%02d] %-8s -> %s (%d columns, %d rows)\n", i+1, f, Tables[f], len(fs.Columns)+1, targetCount)
			}
			return nil
		}

		pumper := seed.NewPumper(DB, Dialect, Tables, logger)
		if _, err := pumper.EnsureTables(cmd.Context(), families); err != nil {
			return err
		}
		if seedClean {
			if err := pumper.Clean(cmd.Context(), families); err != nil {
				return err
			}
		}

		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(targetCount * len(families)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Seeding: "
		})

		results, err := pumper.Pump(cmd.Context(), families, seed.Options{
			Count: targetCount,
			From:  dates.From,
			To:    dates.To,
			Seed:  seedRandom,
		}, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "\n📊 Summary Report:")
		total := 0
		for i, r := range results {
			icon := "✓"
			if r.Status != "OK" {
				icon = "!"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] [%02d/%02d] %-22s : %d rows (Target: %d) - %s\n",
				icon, i+1, len(results), r.TableName, r.Actual, r.Target, r.Status)
			if r.ErrorMsg != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "    └ Error: %s\n", r.ErrorMsg)
			}
			total += r.Actual
		}
		fmt.Fprintln(cmd.OutOrStdout(), "--------------------------------------------------")
		fmt.Fprintf(cmd.OutOrStdout(), "Total Rows: %d (%s)\n", total, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)

	// CLI Flags
	seedCmd.Flags().IntVar(&seedCount, "count", 0, "Number of rows to generate per family (overrides config)")
	seedCmd.Flags().StringSliceVar(&seedFamilies, "families", nil, "Families to seed (default: all)")
	seedCmd.Flags().BoolVar(&seedClean, "clean", false, "Clean tables before filling")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Simulate the process without writing to DB")
	seedCmd.Flags().StringVar(&seedFrom, "from", "", "earliest generated openday (default: a year ago)")
	seedCmd.Flags().StringVar(&seedTo, "to", "", "latest generated openday (default: today)")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 1, "random seed")

	viper.BindPFlag("settings.seed_count", seedCmd.Flags().Lookup("count"))
}
