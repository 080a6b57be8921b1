package cmd

import (
	"survey-stats/internal/report"
	"survey-stats/internal/store"

	"github.com/spf13/cobra"
)

var (
	searchFlags requestFlags
	postFilter  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List matching records with their subscale averages",
	Example: `  survey-stats search -f PROGRAM --from 2024-01-01 --to 2024-06-30 -k residence=서울
  survey-stats search -f 3 -k pv=사전 -k agency=초등학교 --limit 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := searchFlags.build()
		if err != nil {
			return err
		}

		svc := report.NewService(store.NewFetcher(DB, Dialect, Tables, logger), logger)
		var rep *report.SearchReport
		if postFilter {
			rep, err = svc.KeywordSearch(cmd.Context(), req.Request)
		} else {
			rep, err = svc.Search(cmd.Context(), req.Request)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, rep)
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)
	searchFlags.register(searchCmd, false)
	searchCmd.Flags().BoolVar(&postFilter, "post-filter", false, "apply filter tokens after fetching (keyword search)")
}
