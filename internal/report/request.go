package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"survey-stats/internal/filter"
	"survey-stats/internal/schema"
)

// Request selects and narrows one family's records.
type Request struct {
	Family    schema.Family
	DateRange filter.DateRange
	Tokens    []filter.Token
	Limit     int
}

// StatsRequest adds grouping and measures to a Request.
type StatsRequest struct {
	Request
	GroupBy  []string
	Measures []string
}

// wireRequest is the inbound JSON payload.
type wireRequest struct {
	FamilySelector json.RawMessage `json:"family_selector"`
	DateRange      *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"date_range"`
	FilterTokens []filter.Token `json:"filter_tokens"`
	GroupBy      []string       `json:"group_by"`
	Measures     []string       `json:"measures"`
	Limit        int            `json:"limit"`
}

// ParseRequest decodes a request payload. family_selector is a family name
// or a legacy numeric code 1-5, given as a JSON string or number.
func ParseRequest(data []byte) (StatsRequest, error) {
	var w wireRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&w); err != nil {
		return StatsRequest{}, fmt.Errorf("invalid request payload: %w", err)
	}

	fam, err := parseSelector(w.FamilySelector)
	if err != nil {
		return StatsRequest{}, err
	}

	var dates filter.DateRange
	if w.DateRange != nil {
		if dates, err = filter.ParseDateRange(w.DateRange.Start, w.DateRange.End); err != nil {
			return StatsRequest{}, err
		}
	}

	return StatsRequest{
		Request: Request{
			Family:    fam,
			DateRange: dates,
			Tokens:    w.FilterTokens,
			Limit:     w.Limit,
		},
		GroupBy:  w.GroupBy,
		Measures: w.Measures,
	}, nil
}

func parseSelector(raw json.RawMessage) (schema.Family, error) {
	if len(raw) == 0 {
		return "", &schema.ConfigurationError{Reason: "family_selector is required"}
	}
	var code int
	if err := json.Unmarshal(raw, &code); err == nil {
		return schema.FamilyFromCode(code)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", fmt.Errorf("invalid family_selector %s: %w", raw, err)
	}
	return schema.ParseFamily(name)
}
