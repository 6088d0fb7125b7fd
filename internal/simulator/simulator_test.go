package simulator

import (
	"errors"
	"testing"

	"placesim/internal/cluster"
	"placesim/internal/common"
	"placesim/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// firstNodePlacer 总是返回第一个节点，不检查容量
type firstNodePlacer struct{}

func (firstNodePlacer) FindNode(_ cluster.Job, pool *cluster.Pool) *cluster.WorkerNode {
	return pool.Node(0)
}

func (firstNodePlacer) Name() string { return "first-node" }

func TestRunSingleJobTwoNodes(t *testing.T) {
	sim := NewSimulator(zaptest.NewLogger(t))
	jobs := []cluster.Job{cluster.NewJob(0, 0, 10, 20, 1)}

	for _, policy := range scheduler.AllPlacementPolicies() {
		t.Run(policy.String(), func(t *testing.T) {
			placer, err := scheduler.CreatePlacer(policy)
			require.NoError(t, err)
			pool := cluster.NewPool(2, common.DefaultNodeCapacity())

			result, err := sim.Run(jobs, pool, placer)

			require.NoError(t, err)
			assert.Equal(t, 1, result.Placed)
			assert.Equal(t, 0, result.Dropped)
			assert.Equal(t, int64(48), result.TotalCores)
			assert.Equal(t, int64(128), result.TotalMemory)
			assert.InDelta(t, 20.8333, result.CPUUtilization, 0.001)
			assert.InDelta(t, 15.625, result.MemoryUtilization, 1e-9)
			assert.Equal(t, map[int]int{0: 0}, result.Assignments)
			assert.Equal(t, common.Resource{Memory: 44, VCores: 14}, pool.Node(0).Available)
			assert.Equal(t, common.DefaultNodeCapacity(), pool.Node(1).Available)
		})
	}
}

func TestRunOversizeJobDropped(t *testing.T) {
	sim := NewSimulator(nil)
	jobs := []cluster.Job{cluster.NewJob(0, 0, 30, 10, 1)}

	for _, policy := range scheduler.AllPlacementPolicies() {
		placer, err := scheduler.CreatePlacer(policy)
		require.NoError(t, err)

		result, err := sim.Run(jobs, cluster.NewDefaultPool(), placer)

		require.NoError(t, err, policy.String())
		assert.Equal(t, 0, result.Placed)
		assert.Equal(t, 1, result.Dropped)
		assert.Zero(t, result.CPUUtilization)
		assert.Zero(t, result.MemoryUtilization)
		assert.Empty(t, result.Assignments)
	}
}

func TestRunFillsPoolThenDrops(t *testing.T) {
	sim := NewSimulator(nil)
	placer, err := scheduler.CreatePlacer(scheduler.FirstFit)
	require.NoError(t, err)

	// 每个节点恰好容纳一个满载作业
	var jobs []cluster.Job
	for i := 0; i < 3; i++ {
		jobs = append(jobs, cluster.NewJob(i, 0, 24, 64, 1))
	}

	result, err := sim.Run(jobs, cluster.NewPool(2, common.DefaultNodeCapacity()), placer)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Placed)
	assert.Equal(t, 1, result.Dropped)
	assert.InDelta(t, 100.0, result.CPUUtilization, 1e-9)
	assert.InDelta(t, 100.0, result.MemoryUtilization, 1e-9)
	assert.Equal(t, map[int]int{0: 0, 1: 1}, result.Assignments)
}

func TestRunDeterministic(t *testing.T) {
	sim := NewSimulator(nil)
	jobs := []cluster.Job{
		cluster.NewJob(0, 3, 12, 40, 2),
		cluster.NewJob(1, 1, 20, 10, 4),
		cluster.NewJob(2, 7, 5, 60, 1),
		cluster.NewJob(3, 2, 9, 9, 3),
	}

	for _, policy := range scheduler.AllPlacementPolicies() {
		placer, err := scheduler.CreatePlacer(policy)
		require.NoError(t, err)

		first, err := sim.Run(jobs, cluster.NewPool(2, common.DefaultNodeCapacity()), placer)
		require.NoError(t, err)
		second, err := sim.Run(jobs, cluster.NewPool(2, common.DefaultNodeCapacity()), placer)
		require.NoError(t, err)

		assert.Equal(t, first, second, policy.String())
	}
}

func TestRunUsedNeverExceedsTotal(t *testing.T) {
	sim := NewSimulator(nil)
	var jobs []cluster.Job
	for i := 0; i < 200; i++ {
		jobs = append(jobs, cluster.NewJob(i, i%24, int32(i%24+1), int64(i%64+1), i%5+1))
	}

	for _, policy := range scheduler.AllPlacementPolicies() {
		placer, err := scheduler.CreatePlacer(policy)
		require.NoError(t, err)
		pool := cluster.NewPool(8, common.DefaultNodeCapacity())

		result, err := sim.Run(jobs, pool, placer)

		require.NoError(t, err)
		assert.Equal(t, len(jobs), result.Placed+result.Dropped)
		assert.LessOrEqual(t, result.UsedCores, result.TotalCores)
		assert.LessOrEqual(t, result.UsedMemory, result.TotalMemory)
		for _, node := range pool.Nodes() {
			assert.GreaterOrEqual(t, node.Available.VCores, int32(0))
			assert.GreaterOrEqual(t, node.Available.Memory, int64(0))
		}

		used := pool.TotalCapacity().Subtract(pool.Available())
		assert.Equal(t, result.UsedCores, int64(used.VCores))
		assert.Equal(t, result.UsedMemory, used.Memory)
	}
}

func TestRunPlacerContractViolation(t *testing.T) {
	sim := NewSimulator(nil)
	jobs := []cluster.Job{
		cluster.NewJob(0, 0, 20, 10, 1),
		cluster.NewJob(1, 0, 20, 10, 1),
	}

	result, err := sim.Run(jobs, cluster.NewPool(2, common.DefaultNodeCapacity()), firstNodePlacer{})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOverAllocation)

	var overAlloc *common.OverAllocationError
	require.True(t, errors.As(err, &overAlloc))
	assert.Equal(t, 0, overAlloc.NodeID)
}

func TestRunEmptyPool(t *testing.T) {
	placer, err := scheduler.CreatePlacer(scheduler.BestFit)
	require.NoError(t, err)

	_, err = NewSimulator(nil).Run(nil, cluster.NewPool(0, common.DefaultNodeCapacity()), placer)

	assert.ErrorIs(t, err, common.ErrEmptyPool)
}

func TestRunNoJobs(t *testing.T) {
	placer, err := scheduler.CreatePlacer(scheduler.WorstFit)
	require.NoError(t, err)

	result, err := NewSimulator(nil).Run(nil, cluster.NewDefaultPool(), placer)

	require.NoError(t, err)
	assert.Zero(t, result.Placed)
	assert.Zero(t, result.CPUUtilization)
}

func TestUtilization(t *testing.T) {
	assert.InDelta(t, 50.0, Utilization(12, 24), 1e-9)
	assert.Zero(t, Utilization(5, 0))
}
