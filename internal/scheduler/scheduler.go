package scheduler

import (
	"fmt"

	"placesim/internal/cluster"
	"placesim/internal/common"
)

// Placer 放置策略接口
type Placer interface {
	// FindNode 为作业选择节点，返回 nil 表示没有可用节点（作业被丢弃）
	FindNode(job cluster.Job, pool *cluster.Pool) *cluster.WorkerNode

	// Name 策略名
	Name() string
}

// PlacementPolicy 放置策略
type PlacementPolicy int

const (
	FirstFit PlacementPolicy = iota
	BestFit
	WorstFit
)

var placementPolicyNames = map[PlacementPolicy]string{
	FirstFit: "First Fit",
	BestFit:  "Best Fit",
	WorstFit: "Worst Fit",
}

var placementPolicyAliases = map[string]PlacementPolicy{
	"first-fit": FirstFit,
	"firstfit":  FirstFit,
	"ff":        FirstFit,
	"best-fit":  BestFit,
	"bestfit":   BestFit,
	"bf":        BestFit,
	"worst-fit": WorstFit,
	"worstfit":  WorstFit,
	"wf":        WorstFit,
}

func (p PlacementPolicy) String() string {
	if name, ok := placementPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PlacementPolicy(%d)", int(p))
}

// MarshalText 以策略名序列化
func (p PlacementPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePlacementPolicy 解析策略名，大小写、空格、连字符不敏感
func ParsePlacementPolicy(name string) (PlacementPolicy, error) {
	if p, ok := placementPolicyAliases[common.NormalizePolicyName(name)]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: placement policy %q", common.ErrUnknownPolicy, name)
}

// AllPlacementPolicies 返回所有放置策略，顺序与实验输出一致
func AllPlacementPolicies() []PlacementPolicy {
	return []PlacementPolicy{FirstFit, BestFit, WorstFit}
}
