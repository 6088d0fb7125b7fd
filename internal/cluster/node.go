package cluster

import (
	"fmt"

	"placesim/internal/common"
)

// WorkerNode 工作节点
type WorkerNode struct {
	ID        int             `json:"id"`
	Capacity  common.Resource `json:"capacity"`
	Available common.Resource `json:"available"`
}

// NewWorkerNode 创建满容量的工作节点
func NewWorkerNode(id int, capacity common.Resource) *WorkerNode {
	return &WorkerNode{
		ID:        id,
		Capacity:  capacity,
		Available: capacity,
	}
}

// CanAllocate 检查节点剩余资源是否足够容纳作业
func (n *WorkerNode) CanAllocate(job Job) bool {
	return n.Available.Fits(job.Resource)
}

// Allocate 为作业扣减资源；资源不足时返回错误且不修改节点
func (n *WorkerNode) Allocate(job Job) error {
	if !n.CanAllocate(job) {
		return common.NewOverAllocationError(n.ID, job.Resource, n.Available)
	}
	n.Available = n.Available.Subtract(job.Resource)
	return nil
}

// Release 归还作业占用的资源
func (n *WorkerNode) Release(job Job) error {
	released := n.Available.Add(job.Resource)
	if !n.Capacity.Fits(released) {
		return fmt.Errorf("%w: node %d would have %s, capacity %s",
			common.ErrOverRelease, n.ID, released, n.Capacity)
	}
	n.Available = released
	return nil
}

// Reset 恢复满容量
func (n *WorkerNode) Reset() {
	n.Available = n.Capacity
}

func (n *WorkerNode) String() string {
	return fmt.Sprintf("Node %d{Available: %s}", n.ID, n.Available)
}
