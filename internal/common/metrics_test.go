package common

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRun(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(JobsDropped.WithLabelValues("FCFS", "Worst Fit"))
	RecordRun("FCFS", "Worst Fit", 90, 10, 75.5, 60.25, 3*time.Millisecond)

	assert.Equal(t, before+10, testutil.ToFloat64(JobsDropped.WithLabelValues("FCFS", "Worst Fit")))
	assert.Equal(t, 75.5, testutil.ToFloat64(CPUUtilization.WithLabelValues("FCFS", "Worst Fit")))
	assert.Equal(t, 60.25, testutil.ToFloat64(MemoryUtilization.WithLabelValues("FCFS", "Worst Fit")))
}
