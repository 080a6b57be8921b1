package cmd

import (
	"fmt"

	"survey-stats/internal/report"
	"survey-stats/internal/schema"
	"survey-stats/internal/store"

	"github.com/spf13/cobra"
)

var (
	statsFlags    requestFlags
	regionFlags   requestFlags
	prepostFlags  requestFlags
	combinedFlags requestFlags
	combinedFams  []string
)

func newService() *report.Service {
	return report.NewService(store.NewFetcher(DB, Dialect, Tables, logger), logger)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Cohort rollup of subscale or score averages",
	Example: `  survey-stats stats -f PROGRAM -g bunya
  survey-stats stats -f HEALING -g region,pv -m physical,score3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := statsFlags.build()
		if err != nil {
			return err
		}
		rep, err := newService().Statistics(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd, rep)
	},
}

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Distribution over the 18 fixed regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := regionFlags.build()
		if err != nil {
			return err
		}
		rep, err := newService().Statistics(cmd.Context(), report.StatsRequest{
			Request:  req.Request,
			GroupBy:  []string{schema.RegionCatalog.Name},
			Measures: req.Measures,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, rep)
	},
}

var prepostCmd = &cobra.Command{
	Use:   "prepost",
	Short: "Pre/post (사전/사후) comparison with deltas",
	Example: `  survey-stats prepost -f COUNSEL -g agency`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := prepostFlags.build()
		if err != nil {
			return err
		}
		rep, err := newService().PrePostComparison(cmd.Context(), req.Request, req.GroupBy...)
		if err != nil {
			return err
		}
		return printJSON(cmd, rep)
	},
}

var combinedCmd = &cobra.Command{
	Use:   "combined",
	Short: "Run the same statistics over several families concurrently",
	Example: `  survey-stats combined --families COUNSEL,PREVENT,HEALING -g pv --from 2024-01-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(combinedFams) == 0 {
			return fmt.Errorf("--families is required")
		}

		var reqs []report.StatsRequest
		for _, name := range combinedFams {
			combinedFlags.family = name
			req, err := combinedFlags.build()
			if err != nil {
				return err
			}
			reqs = append(reqs, req)
		}

		reports := newService().Combined(cmd.Context(), reqs)
		return printJSON(cmd, reports)
	},
}

func init() {
	RootCmd.AddCommand(statsCmd, regionCmd, prepostCmd, combinedCmd)
	statsFlags.register(statsCmd, true)
	regionFlags.register(regionCmd, true)
	prepostFlags.register(prepostCmd, true)
	combinedFlags.register(combinedCmd, true)
	combinedCmd.Flags().StringSliceVar(&combinedFams, "families", nil, "families to report (names or 1-5)")
	combinedCmd.Flags().MarkHidden("family")
}
