package cmd

import (
	"fmt"
	"io"
	"os"

	"survey-stats/internal/filter"
	"survey-stats/internal/report"
	"survey-stats/internal/schema"

	"github.com/spf13/cobra"
)

// requestFlags are shared by the report commands.
type requestFlags struct {
	family   string
	from     string
	to       string
	filters  []string
	file     string
	limit    int
	groupBy  []string
	measures []string
}

func (f *requestFlags) register(cmd *cobra.Command, stats bool) {
	cmd.Flags().StringVarP(&f.family, "family", "f", "", "survey family: PROGRAM, FACILITY, COUNSEL, PREVENT, HEALING or 1-5")
	cmd.Flags().StringVar(&f.from, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "k", nil, "field=value filter token (repeatable)")
	cmd.Flags().StringVar(&f.file, "request", "", "JSON request payload file (- for stdin)")
	if stats {
		cmd.Flags().StringSliceVarP(&f.groupBy, "group-by", "g", nil, "grouping dimensions (region, pv, sex, bunya, agency, ...)")
		cmd.Flags().StringSliceVarP(&f.measures, "measure", "m", nil, "subscales or score fields to aggregate (default: all subscales)")
	} else {
		cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum rows (0 = all)")
	}
}

// build merges the payload file (if any) with explicit flags; flags win.
func (f *requestFlags) build() (report.StatsRequest, error) {
	var req report.StatsRequest
	if f.file != "" {
		var data []byte
		var err error
		if f.file == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(f.file)
		}
		if err != nil {
			return req, fmt.Errorf("failed to read request: %w", err)
		}
		if req, err = report.ParseRequest(data); err != nil {
			return req, err
		}
	}

	if f.family != "" {
		fam, err := schema.ParseFamily(f.family)
		if err != nil {
			return req, err
		}
		req.Family = fam
	}
	if req.Family == "" {
		return req, fmt.Errorf("--family or a request payload is required")
	}

	if f.from != "" || f.to != "" {
		dates, err := filter.ParseDateRange(f.from, f.to)
		if err != nil {
			return req, err
		}
		req.DateRange = dates
	}
	for _, s := range f.filters {
		t, err := filter.ParseToken(s)
		if err != nil {
			return req, err
		}
		req.Tokens = append(req.Tokens, t)
	}
	if f.limit > 0 {
		req.Limit = f.limit
	}
	if len(f.groupBy) > 0 {
		req.GroupBy = f.groupBy
	}
	if len(f.measures) > 0 {
		req.Measures = f.measures
	}
	return req, nil
}
