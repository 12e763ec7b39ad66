package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// Resource Describes one read-only ML API endpoint exposed under `/api/ml`
type Resource struct {
	Name         string
	Route        string
	UpstreamPath string
	Limit        LimitRange
	Filters      []Filter
}

// LimitRange Inclusive bounds for the `limit` query parameter, with the value sent when the caller omits it
type LimitRange struct {
	Min, Max, Default int
}

// Filter An optional string parameter forwarded verbatim. By default an empty value is dropped;
// KeepEmpty forwards it whenever the parameter is present at all.
type Filter struct {
	Name      string
	KeepEmpty bool
}

// ValidationError Input rejected before any upstream call
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Reason)
}

var Resources = []Resource{
	{
		Name:         "market analysis",
		Route:        "/market-analysis",
		UpstreamPath: "/market-analysis",
		Limit:        LimitRange{Min: 1, Max: 100, Default: 1},
		Filters:      []Filter{{Name: "signal_type"}},
	},
	{
		Name:         "market signals",
		Route:        "/market-signals",
		UpstreamPath: "/market-signals",
		Limit:        LimitRange{Min: 1, Max: 100, Default: 20},
	},
	{
		Name:         "LLM analysis",
		Route:        "/llm-analysis",
		UpstreamPath: "/llm-analysis",
		Limit:        LimitRange{Min: 1, Max: 100, Default: 10},
	},
	{
		Name:         "candles",
		Route:        "/candles",
		UpstreamPath: "/candles",
		Limit:        LimitRange{Min: 1, Max: 1000, Default: 100},
		Filters:      []Filter{{Name: "start_time"}, {Name: "end_time"}},
	},
	{
		Name:         "data quality logs",
		Route:        "/data-quality",
		UpstreamPath: "/data-quality-logs",
		Limit:        LimitRange{Min: 1, Max: 100, Default: 50},
		Filters:      []Filter{{Name: "resolved", KeepEmpty: true}},
	},
}

// UpstreamQuery Validates inbound parameters and builds the exact query sent upstream. Unknown parameters are dropped.
func (res Resource) UpstreamQuery(in url.Values) (url.Values, error) {
	limit, err := res.Limit.parse(in)
	if err != nil {
		return nil, err
	}

	out := url.Values{"limit": {strconv.Itoa(limit)}}
	for _, f := range res.Filters {
		if !in.Has(f.Name) {
			continue
		}
		v := in.Get(f.Name)
		if v == "" && !f.KeepEmpty {
			continue
		}
		out.Set(f.Name, v)
	}
	return out, nil
}

func (lr LimitRange) parse(in url.Values) (int, error) {
	if !in.Has("limit") {
		return lr.Default, nil
	}

	limit, err := strconv.Atoi(in.Get("limit"))
	if err != nil {
		return 0, &ValidationError{Param: "limit", Reason: "must be an integer"}
	}
	if limit < lr.Min || limit > lr.Max {
		return 0, &ValidationError{Param: "limit", Reason: fmt.Sprintf("must be between %d and %d", lr.Min, lr.Max)}
	}
	return limit, nil
}
