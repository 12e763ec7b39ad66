package setup

import (
	"context"
	"testing"
	"time"

	"github.com/quaint/analyzer/backend/mlapi"
	"github.com/quaint/analyzer/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.MLAPI
		appConfig config.ApplicationConfiguration
		enabled   bool
		traced    bool
	}{
		{
			name:    "no key",
			cfg:     config.MLAPI{URL: "https://ml.example", Timeout: time.Second},
			enabled: false,
		},
		{
			name:    "key",
			cfg:     config.MLAPI{URL: "https://ml.example", Key: "k", Timeout: time.Second},
			enabled: true,
		},
		{
			name:      "key with tracing",
			cfg:       config.MLAPI{URL: "https://ml.example", Key: "k", Timeout: time.Second},
			appConfig: config.ApplicationConfiguration{Tracing: config.Tracing{Enabled: true}},
			enabled:   true,
			traced:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Init(context.Background(), tt.cfg, tt.appConfig, nil)
			require.NoError(t, err)

			if !tt.enabled {
				assert.Nil(t, got)
				return
			}

			b, ok := got.(*mlapi.Backend)
			require.True(t, ok)
			assert.Equal(t, tt.cfg, b.Config)
			assert.Equal(t, tt.traced, b.EnableTrace)
			assert.Equal(t, time.Second, b.Client.Timeout)
		})
	}
}
