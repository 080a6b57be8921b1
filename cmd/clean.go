package cmd

import (
	"fmt"

	"survey-stats/internal/seed"

	"github.com/spf13/cobra"
)

var cleanFamilies []string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all rows from the family tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		families, err := selectFamilies(cleanFamilies)
		if err != nil {
			return err
		}
		if err := seed.NewPumper(DB, Dialect, Tables, logger).Clean(cmd.Context(), families); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d family tables.\n", len(families))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringSliceVar(&cleanFamilies, "families", nil, "Families to clean (default: all)")
}
