package firstfit

import (
	"placesim/internal/cluster"
)

// FirstFit 首次适应：按节点顺序选第一个放得下的节点
type FirstFit struct{}

// NewFirstFit 创建首次适应策略
func NewFirstFit() *FirstFit {
	return &FirstFit{}
}

func (f *FirstFit) Name() string {
	return "First Fit"
}

// FindNode 查找可用节点
func (f *FirstFit) FindNode(job cluster.Job, pool *cluster.Pool) *cluster.WorkerNode {
	for _, node := range pool.Nodes() {
		if node.CanAllocate(job) {
			return node
		}
	}
	return nil
}
