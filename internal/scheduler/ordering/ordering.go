package ordering

import (
	"cmp"
	"fmt"
	"slices"

	"placesim/internal/cluster"
	"placesim/internal/common"
)

// Policy 队列排序策略
type Policy int

const (
	// FCFS 先来先服务，保持生成顺序
	FCFS Policy = iota
	// SmallestJobFirst 按 cores*memory*execution_time 升序
	SmallestJobFirst
	// ShortestDuration 按执行时长升序
	ShortestDuration
)

var policyNames = map[Policy]string{
	FCFS:             "FCFS",
	SmallestJobFirst: "Smallest Job First",
	ShortestDuration: "Shortest Duration",
}

var policyAliases = map[string]Policy{
	"fcfs":                    FCFS,
	"fifo":                    FCFS,
	"first-come-first-served": FCFS,
	"smallest-job-first":      SmallestJobFirst,
	"sjf":                     SmallestJobFirst,
	"shortest-duration":       ShortestDuration,
	"sd":                      ShortestDuration,
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// MarshalText 以策略名序列化
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Parse 解析队列策略名
func Parse(name string) (Policy, error) {
	if p, ok := policyAliases[common.NormalizePolicyName(name)]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: queue policy %q", common.ErrUnknownPolicy, name)
}

// All 返回所有队列策略，顺序与实验输出一致
func All() []Policy {
	return []Policy{FCFS, SmallestJobFirst, ShortestDuration}
}

// Order 返回按策略排序后的副本，不修改 jobs；排序稳定，键相同的作业保持原有相对顺序
func Order(policy Policy, jobs []cluster.Job) ([]cluster.Job, error) {
	ordered := slices.Clone(jobs)

	switch policy {
	case FCFS:
	case SmallestJobFirst:
		slices.SortStableFunc(ordered, func(a, b cluster.Job) int {
			return cmp.Compare(a.Value(), b.Value())
		})
	case ShortestDuration:
		slices.SortStableFunc(ordered, func(a, b cluster.Job) int {
			return cmp.Compare(a.ExecutionTime, b.ExecutionTime)
		})
	default:
		return nil, fmt.Errorf("%w: unsupported queue policy %s", common.ErrUnknownPolicy, policy)
	}

	return ordered, nil
}
