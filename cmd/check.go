package cmd

import (
	"fmt"

	"survey-stats/internal/schema"
	"survey-stats/internal/store"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the family tables against the schema registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := store.Inspect(cmd.Context(), DB, Dialect, Tables, schema.Families())
		if err != nil {
			return err
		}

		failed := 0
		for _, st := range statuses {
			switch {
			case !st.Exists:
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "[!] %-8s %-22s : table missing\n", st.Family, st.Table)
			case len(st.MissingColumns) > 0:
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "[!] %-8s %-22s : missing columns %v\n", st.Family, st.Table, st.MissingColumns)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "[✓] %-8s %-22s : OK\n", st.Family, st.Table)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d family tables do not match the registry", failed, len(statuses))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
