package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"survey-stats/internal/engine"
	"survey-stats/internal/filter"
	"survey-stats/internal/schema"
	"survey-stats/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecordSource fetches records; *store.Fetcher implements it.
type RecordSource interface {
	Fetch(ctx context.Context, q store.Query) ([]schema.Record, error)
}

// maxFamilyFetches bounds concurrent family queries in Combined.
const maxFamilyFetches = 4

// Service builds the search and statistics reports.
type Service struct {
	source RecordSource
	logger *zap.Logger
}

func NewService(source RecordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// Row is one record flattened with its subscale averages appended as
// avg_<subscale>.
type Row map[string]any

// SearchReport is the payload of the search/list reports.
type SearchReport struct {
	Family schema.Family `json:"family"`
	Total  int           `json:"total"`
	Rows   []Row         `json:"rows"`
}

// StatsReport is the payload of the statistics reports.
type StatsReport struct {
	Family   schema.Family         `json:"family"`
	GroupBy  []string              `json:"group_by"`
	Measures []string              `json:"measures"`
	Records  int                   `json:"records"`
	Total    engine.CohortResult   `json:"total"`
	Rows     []engine.CohortResult `json:"rows"`
}

// PrePostReport pairs pre and post cohorts.
type PrePostReport struct {
	Family  schema.Family     `json:"family"`
	GroupBy []string          `json:"group_by"`
	Records int               `json:"records"`
	Rows    []engine.DeltaRow `json:"rows"`
}

// FamilyReport is one sub-report of Combined. Error is set instead of
// Report when that family failed.
type FamilyReport struct {
	Family schema.Family `json:"family"`
	Report *StatsReport  `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
	Err    error         `json:"-"`
}

func (s *Service) predicate(req Request) (*filter.Predicate, error) {
	p, err := filter.Build(req.Family, req.Tokens, req.DateRange)
	if err != nil {
		return nil, err
	}
	for _, d := range p.Dropped() {
		s.logger.Debug("dropped filter token",
			zap.String("family", req.Family.String()),
			zap.String("field", d.Token.Field),
			zap.String("reason", d.Reason))
	}
	return p, nil
}

// fetch narrows in the datastore (pre-fetch filtering).
func (s *Service) fetch(ctx context.Context, req Request) ([]schema.Record, error) {
	p, err := s.predicate(req)
	if err != nil {
		return nil, err
	}
	return s.source.Fetch(ctx, store.Query{Family: req.Family, Predicate: p, Limit: req.Limit})
}

// Search lists matching records, newest first, each with its subscale
// averages. Tokens are translated into the datastore query.
func (s *Service) Search(ctx context.Context, req Request) (*SearchReport, error) {
	fs, err := schema.Get(req.Family)
	if err != nil {
		return nil, err
	}
	records, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return searchReport(fs, records, req.Limit), nil
}

// KeywordSearch is Search with the tokens applied after the fetch: only the
// date range reaches the datastore.
func (s *Service) KeywordSearch(ctx context.Context, req Request) (*SearchReport, error) {
	fs, err := schema.Get(req.Family)
	if err != nil {
		return nil, err
	}
	p, err := s.predicate(req)
	if err != nil {
		return nil, err
	}
	records, err := s.source.Fetch(ctx, store.Query{Family: req.Family, Predicate: p.DateOnly()})
	if err != nil {
		return nil, err
	}
	return searchReport(fs, p.Filter(records), req.Limit), nil
}

func searchReport(fs *schema.FamilySchema, records []schema.Record, limit int) *SearchReport {
	sorted := append([]schema.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].Date(fs.DateField), sorted[j].Date(fs.DateField)
		if di != dj {
			return di > dj
		}
		return sorted[i].ID > sorted[j].ID
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]Row, 0, len(sorted))
	for _, r := range sorted {
		row := Row(r.Flat())
		for _, sc := range engine.RecordAverages(r, fs) {
			row["avg_"+sc.Name] = sc.Average
		}
		rows = append(rows, row)
	}
	return &SearchReport{Family: fs.Family, Total: len(rows), Rows: rows}
}

// Statistics groups matching records and aggregates the measures.
func (s *Service) Statistics(ctx context.Context, req StatsRequest) (*StatsReport, error) {
	fs, err := schema.Get(req.Family)
	if err != nil {
		return nil, err
	}
	dims, err := engine.ResolveDimensions(fs, req.GroupBy)
	if err != nil {
		return nil, err
	}
	measures, err := engine.ResolveMeasures(fs, req.Measures)
	if err != nil {
		return nil, err
	}

	statsReq := req.Request
	statsReq.Limit = 0
	records, err := s.fetch(ctx, statsReq)
	if err != nil {
		return nil, err
	}
	return statsReport(fs, records, dims, measures), nil
}

func statsReport(fs *schema.FamilySchema, records []schema.Record, dims []schema.Dimension, measures []engine.Measure) *StatsReport {
	cohorts := engine.Aggregate(records, dims, measures)

	groupBy := make([]string, len(dims))
	for i, d := range dims {
		groupBy[i] = d.Name
	}
	names := make([]string, len(measures))
	for i, m := range measures {
		names[i] = m.Name
	}

	rows := engine.Assemble(cohorts, dims, measures)
	if rows == nil {
		rows = []engine.CohortResult{}
	}
	return &StatsReport{
		Family:   fs.Family,
		GroupBy:  groupBy,
		Measures: names,
		Records:  len(records),
		Total:    engine.Total(records, measures),
		Rows:     rows,
	}
}

// RegionDistribution rolls the records up over the 18 fixed regions.
func (s *Service) RegionDistribution(ctx context.Context, req Request) (*StatsReport, error) {
	return s.Statistics(ctx, StatsRequest{Request: req, GroupBy: []string{schema.RegionCatalog.Name}})
}

// PrePostComparison pairs pre and post cohorts (optionally split by
// groupBy) and reports per-subscale deltas.
func (s *Service) PrePostComparison(ctx context.Context, req Request, groupBy ...string) (*PrePostReport, error) {
	fs, err := schema.Get(req.Family)
	if err != nil {
		return nil, err
	}
	if !fs.HasPV() {
		return nil, &schema.ConfigurationError{Family: string(fs.Family), Reason: "family has no pre/post marker"}
	}

	for _, g := range groupBy {
		if strings.EqualFold(g, schema.PVCatalog.Name) {
			return nil, fmt.Errorf("group by %q: pv is implied in a pre/post comparison", g)
		}
	}
	stats, err := s.Statistics(ctx, StatsRequest{
		Request: req,
		GroupBy: append(append([]string{}, groupBy...), schema.PVCatalog.Name),
	})
	if err != nil {
		return nil, err
	}

	rows := engine.PairPrePost(stats.Rows, schema.PVCatalog.Name)
	return &PrePostReport{
		Family:  fs.Family,
		GroupBy: stats.GroupBy[:len(stats.GroupBy)-1],
		Records: stats.Records,
		Rows:    rows,
	}, nil
}

// Combined runs one statistics report per request concurrently. A failed
// family is reported in its own entry; the others are unaffected.
func (s *Service) Combined(ctx context.Context, reqs []StatsRequest) []FamilyReport {
	out := make([]FamilyReport, len(reqs))

	var g errgroup.Group
	g.SetLimit(maxFamilyFetches)
	for i, req := range reqs {
		g.Go(func() error {
			rep, err := s.Statistics(ctx, req)
			out[i] = FamilyReport{Family: req.Family, Report: rep}
			if err != nil {
				s.logger.Warn("family report failed",
					zap.String("family", req.Family.String()),
					zap.Error(err))
				out[i] = FamilyReport{Family: req.Family, Error: err.Error(), Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
