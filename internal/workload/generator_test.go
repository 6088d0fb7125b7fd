package workload

import (
	"testing"

	"placesim/internal/cluster"
	"placesim/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultBounds(t *testing.T) {
	cfg := common.GetDefaultConfig().Workload

	jobs := Generate(cfg)

	require.Len(t, jobs, common.DefaultJobCount)
	for i, job := range jobs {
		assert.Equal(t, i, job.ID)
		assert.GreaterOrEqual(t, job.ArrivalTime, 0)
		assert.Less(t, job.ArrivalTime, 24)
		assert.GreaterOrEqual(t, job.Resource.VCores, int32(1))
		assert.LessOrEqual(t, job.Resource.VCores, int32(24))
		assert.GreaterOrEqual(t, job.Resource.Memory, int64(1))
		assert.LessOrEqual(t, job.Resource.Memory, int64(64))
		assert.GreaterOrEqual(t, job.ExecutionTime, 1)
		assert.LessOrEqual(t, job.ExecutionTime, 5)
		assert.Equal(t, int64(job.Resource.VCores)*job.Resource.Memory*int64(job.ExecutionTime), job.Value())
	}
}

func TestGenerateReproducible(t *testing.T) {
	cfg := common.GetDefaultConfig().Workload
	cfg.Jobs = 100

	assert.Equal(t, Generate(cfg), Generate(cfg))

	cfg2 := cfg
	cfg2.Seed = cfg.Seed + 1
	assert.NotEqual(t, Generate(cfg), Generate(cfg2))
}

func TestGenerateCustomBounds(t *testing.T) {
	cfg := common.WorkloadConfig{
		Jobs:             50,
		Seed:             7,
		MaxArrivalTime:   1,
		MaxVCores:        1,
		MaxMemory:        2,
		MaxExecutionTime: 1,
	}

	for _, job := range Generate(cfg) {
		assert.Equal(t, 0, job.ArrivalTime)
		assert.Equal(t, int32(1), job.Resource.VCores)
		assert.LessOrEqual(t, job.Resource.Memory, int64(2))
		assert.Equal(t, 1, job.ExecutionTime)
	}
}

func TestGenerateZeroJobs(t *testing.T) {
	cfg := common.GetDefaultConfig().Workload
	cfg.Jobs = 0

	assert.Empty(t, Generate(cfg))
}

func TestGenerateZeroBoundsUseDefaults(t *testing.T) {
	jobs := Generate(common.WorkloadConfig{Jobs: 3})

	require.Len(t, jobs, 3)
	for _, job := range jobs {
		assert.Less(t, job.ArrivalTime, common.DefaultMaxArrivalTime)
		assert.GreaterOrEqual(t, job.Resource.VCores, int32(1))
		assert.LessOrEqual(t, job.Resource.VCores, common.DefaultNodeVCores)
		assert.LessOrEqual(t, job.Resource.Memory, common.DefaultNodeMemory)
		assert.LessOrEqual(t, job.ExecutionTime, common.DefaultMaxExecutionTime)
	}

	// 默认上界与显式指定默认值的结果一致
	explicit := common.GetDefaultConfig().Workload
	explicit.Jobs = 3
	explicit.Seed = 0
	assert.Equal(t, Generate(explicit), jobs)
}

func TestGenerateNegativeBounds(t *testing.T) {
	cfg := common.WorkloadConfig{Jobs: 5, MaxArrivalTime: -1, MaxVCores: -3, MaxMemory: -2, MaxExecutionTime: -4}

	assert.NotPanics(t, func() {
		assert.Len(t, Generate(cfg), 5)
	})
}

func TestSummarize(t *testing.T) {
	jobs := []cluster.Job{
		cluster.NewJob(0, 0, 2, 10, 1),
		cluster.NewJob(1, 0, 4, 30, 3),
	}

	summary := Summarize(jobs)

	assert.Equal(t, 2, summary.Jobs)
	assert.Equal(t, int64(6), summary.TotalVCores)
	assert.Equal(t, int64(40), summary.TotalMemory)
	assert.InDelta(t, 3.0, summary.MeanVCores, 1e-9)
	assert.InDelta(t, 20.0, summary.MeanMemory, 1e-9)
	assert.InDelta(t, 2.0, summary.MeanExecutionTime, 1e-9)
	// 样本标准差
	assert.InDelta(t, 1.41421356, summary.StdDevVCores, 1e-6)
	assert.InDelta(t, 14.1421356, summary.StdDevMemory, 1e-6)
}

func TestSummarizeEdgeCases(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	single := Summarize([]cluster.Job{cluster.NewJob(0, 0, 3, 3, 3)})
	assert.Equal(t, 1, single.Jobs)
	assert.InDelta(t, 3.0, single.MeanVCores, 1e-9)
	assert.Zero(t, single.StdDevVCores)
}
