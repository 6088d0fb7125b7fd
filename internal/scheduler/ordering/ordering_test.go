package ordering

import (
	"testing"

	"placesim/internal/cluster"
	"placesim/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJobs() []cluster.Job {
	return []cluster.Job{
		cluster.NewJob(0, 5, 4, 10, 3),  // value 120
		cluster.NewJob(1, 2, 2, 10, 1),  // value 20
		cluster.NewJob(2, 9, 6, 20, 1),  // value 120
		cluster.NewJob(3, 1, 1, 10, 2),  // value 20
		cluster.NewJob(4, 0, 24, 64, 5), // value 7680
		cluster.NewJob(5, 3, 1, 1, 3),   // value 3
	}
}

func ids(jobs []cluster.Job) []int {
	out := make([]int, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestOrderFCFS(t *testing.T) {
	jobs := testJobs()

	ordered, err := Order(FCFS, jobs)

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, ids(ordered))
}

func TestOrderSmallestJobFirst(t *testing.T) {
	ordered, err := Order(SmallestJobFirst, testJobs())

	require.NoError(t, err)
	// 1 和 3、0 和 2 的 value 相同，保持原有顺序
	assert.Equal(t, []int{5, 1, 3, 0, 2, 4}, ids(ordered))
}

func TestOrderShortestDuration(t *testing.T) {
	ordered, err := Order(ShortestDuration, testJobs())

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 0, 5, 4}, ids(ordered))

	for i := 1; i < len(ordered); i++ {
		assert.LessOrEqual(t, ordered[i-1].ExecutionTime, ordered[i].ExecutionTime)
	}
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	jobs := testJobs()

	_, err := Order(ShortestDuration, jobs)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, ids(jobs))
}

func TestOrderStableForEqualKeys(t *testing.T) {
	jobs := make([]cluster.Job, 50)
	for i := range jobs {
		jobs[i] = cluster.NewJob(i, 0, 2, 2, 2)
	}

	for _, policy := range All() {
		ordered, err := Order(policy, jobs)

		require.NoError(t, err)
		assert.Equal(t, ids(jobs), ids(ordered), policy.String())
	}
}

func TestOrderEmpty(t *testing.T) {
	ordered, err := Order(SmallestJobFirst, nil)

	require.NoError(t, err)
	assert.Empty(t, ordered)
}

func TestOrderUnknownPolicy(t *testing.T) {
	_, err := Order(Policy(7), testJobs())

	assert.ErrorIs(t, err, common.ErrUnknownPolicy)
}

func TestParse(t *testing.T) {
	testCases := map[string]Policy{
		"FCFS":               FCFS,
		"fcfs":               FCFS,
		"Smallest Job First": SmallestJobFirst,
		"smallest-job-first": SmallestJobFirst,
		"sjf":                SmallestJobFirst,
		"Shortest Duration":  ShortestDuration,
		"shortest_duration":  ShortestDuration,
	}

	for input, expected := range testCases {
		policy, err := Parse(input)

		require.NoError(t, err, input)
		assert.Equal(t, expected, policy, input)
	}

	_, err := Parse("largest job first")
	assert.ErrorIs(t, err, common.ErrUnknownPolicy)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "FCFS", FCFS.String())
	assert.Equal(t, "Smallest Job First", SmallestJobFirst.String())
	assert.Equal(t, "Shortest Duration", ShortestDuration.String())
}
