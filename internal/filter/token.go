package filter

import (
	"fmt"
	"strings"
	"time"
)

// Token is one caller-supplied field/value filter.
type Token struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ParseToken reads "field=value".
func ParseToken(s string) (Token, error) {
	field, value, ok := strings.Cut(s, "=")
	if !ok {
		return Token{}, fmt.Errorf("filter %q: expected field=value", s)
	}
	return Token{Field: strings.TrimSpace(field), Value: strings.TrimSpace(value)}, nil
}

// DateRange bounds the family's date field. Either end may be zero for an
// open-ended range; both zero means no range.
type DateRange struct {
	From time.Time
	To   time.Time
}

const dateLayout = "2006-01-02"

// ParseDateRange parses YYYY-MM-DD bounds; empty strings leave that end open.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error
	if from = strings.TrimSpace(from); from != "" {
		if r.From, err = time.Parse(dateLayout, from); err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q: %w", from, err)
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		if r.To, err = time.Parse(dateLayout, to); err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q: %w", to, err)
		}
	}
	return r, nil
}

// IsEmpty reports whether neither bound is set.
func (r DateRange) IsEmpty() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) bounds() (from, to string) {
	if !r.From.IsZero() {
		from = r.From.Format(dateLayout)
	}
	if !r.To.IsZero() {
		to = r.To.Format(dateLayout)
	}
	return from, to
}

func (r DateRange) String() string {
	from, to := r.bounds()
	return from + "~" + to
}
