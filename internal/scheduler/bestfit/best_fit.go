package bestfit

import (
	"placesim/internal/cluster"
	"placesim/internal/common"
)

// UnsetMinimum 最小剩余量的初始值：单节点容量 + 1，即"尚未选中"
//
// 默认节点 (24 核, 64 内存) 对应 (25, 65)。
func UnsetMinimum(capacity common.Resource) common.Resource {
	return common.Resource{
		Memory: capacity.Memory + 1,
		VCores: capacity.VCores + 1,
	}
}

// BestFit 最佳适应
//
// 核数剩余和内存剩余分别维护最小值，只有两者都严格小于当前最小值时才替换候选节点。
// 两个维度不会合并成一个分数。
type BestFit struct{}

// NewBestFit 创建最佳适应策略
func NewBestFit() *BestFit {
	return &BestFit{}
}

func (b *BestFit) Name() string {
	return "Best Fit"
}

// FindNode 扫描全部节点，返回剩余资源最少的节点
func (b *BestFit) FindNode(job cluster.Job, pool *cluster.Pool) *cluster.WorkerNode {
	var best *cluster.WorkerNode
	minRemaining := UnsetMinimum(pool.NodeCapacity())

	for _, node := range pool.Nodes() {
		if !node.CanAllocate(job) {
			continue
		}
		remaining := node.Available.Subtract(job.Resource)
		if remaining.VCores < minRemaining.VCores && remaining.Memory < minRemaining.Memory {
			best = node
			minRemaining = remaining
		}
	}

	return best
}
