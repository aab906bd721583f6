// ABOUTME: Tests for the samson Prometheus registry.
// ABOUTME: Verifies the modem_count gauge reflects the supplied reader.

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_ModemCountGauge(t *testing.T) {
	reg := NewRegistry(func() float64 { return 3 })

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "modem_count" {
			found = true
			require.Len(t, mf.GetMetric(), 1)
			assert.Equal(t, float64(3), mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found, "modem_count gauge must be registered")
}
