package worstfit

import (
	"placesim/internal/cluster"
	"placesim/internal/common"
)

// 最大剩余量的初始值，表示"尚未选中"
const (
	UnsetMaxVCores int32 = -1
	UnsetMaxMemory int64 = -1
)

// UnsetMaximum 返回 (-1, -1)
func UnsetMaximum() common.Resource {
	return common.Resource{Memory: UnsetMaxMemory, VCores: UnsetMaxVCores}
}

// WorstFit 最差适应
//
// 核数剩余或内存剩余任意一个超过当前最大值就替换候选节点，
// 替换后两个最大值都取该节点的剩余量。
type WorstFit struct{}

// NewWorstFit 创建最差适应策略
func NewWorstFit() *WorstFit {
	return &WorstFit{}
}

func (w *WorstFit) Name() string {
	return "Worst Fit"
}

// FindNode 扫描全部节点，返回剩余资源最多的节点
func (w *WorstFit) FindNode(job cluster.Job, pool *cluster.Pool) *cluster.WorkerNode {
	var worst *cluster.WorkerNode
	maxRemaining := UnsetMaximum()

	for _, node := range pool.Nodes() {
		if !node.CanAllocate(job) {
			continue
		}
		remaining := node.Available.Subtract(job.Resource)
		if remaining.VCores > maxRemaining.VCores || remaining.Memory > maxRemaining.Memory {
			worst = node
			maxRemaining = remaining
		}
	}

	return worst
}
