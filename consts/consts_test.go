package consts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServiceName(t *testing.T) {
	assert.Equal(t, "evalreport", ServiceName)
}

func TestChartJSURL(t *testing.T) {
	assert.Equal(t, "https://cdn.jsdelivr.net/npm/chart.js@4", ChartJSURL)
}

func TestUptime(t *testing.T) {
	assert.Equal(t, time.Duration(0), GetUptime())

	start := time.Now().Add(-time.Minute)
	SetStartedAt(start)
	SetStartedAt(time.Now())

	assert.Equal(t, start, GetStartedAt())
	assert.GreaterOrEqual(t, GetUptime(), time.Minute)
}
