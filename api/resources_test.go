package api

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourcesTable(t *testing.T) {
	type row struct {
		route, upstream string
		min, max        int
	}

	var got []row
	for _, res := range Resources {
		got = append(got, row{res.Route, res.UpstreamPath, res.Limit.Min, res.Limit.Max})
		assert.GreaterOrEqual(t, res.Limit.Default, res.Limit.Min, res.Name)
		assert.LessOrEqual(t, res.Limit.Default, res.Limit.Max, res.Name)
	}

	assert.Equal(t, []row{
		{"/market-analysis", "/market-analysis", 1, 100},
		{"/market-signals", "/market-signals", 1, 100},
		{"/llm-analysis", "/llm-analysis", 1, 100},
		{"/candles", "/candles", 1, 1000},
		{"/data-quality", "/data-quality-logs", 1, 100},
	}, got)
}

func TestUpstreamQuery(t *testing.T) {
	candles := Resources[3]

	q, err := candles.UpstreamQuery(url.Values{"limit": {"1000"}, "start_time": {"2026-10-01"}, "end_time": {""}})
	require.NoError(t, err)
	assert.Equal(t, url.Values{"limit": {"1000"}, "start_time": {"2026-10-01"}}, q)

	_, err = candles.UpstreamQuery(url.Values{"limit": {"1001"}})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "limit", ve.Param)
	assert.Equal(t, `invalid query parameter "limit": must be between 1 and 1000`, err.Error())
}
