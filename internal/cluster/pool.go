package cluster

import (
	"placesim/internal/common"
)

// Pool 固定顺序的工作节点池，一次模拟独占一个 Pool
type Pool struct {
	nodes        []*WorkerNode
	nodeCapacity common.Resource
}

// NewPool 创建 n 个满容量节点，节点 ID 即其下标
func NewPool(n int, capacity common.Resource) *Pool {
	nodes := make([]*WorkerNode, n)
	for i := range nodes {
		nodes[i] = NewWorkerNode(i, capacity)
	}
	return &Pool{
		nodes:        nodes,
		nodeCapacity: capacity,
	}
}

// NewDefaultPool 128 个 24 核 / 64 内存的节点
func NewDefaultPool() *Pool {
	return NewPool(common.DefaultNodeCount, common.DefaultNodeCapacity())
}

// Nodes 按下标顺序返回节点
func (p *Pool) Nodes() []*WorkerNode {
	return p.nodes
}

// Node 返回指定下标的节点
func (p *Pool) Node(i int) *WorkerNode {
	return p.nodes[i]
}

func (p *Pool) Len() int {
	return len(p.nodes)
}

// NodeCapacity 单节点容量
func (p *Pool) NodeCapacity() common.Resource {
	return p.nodeCapacity
}

// TotalCapacity 整个节点池的容量，所有节点容量相同
func (p *Pool) TotalCapacity() common.Resource {
	return p.nodeCapacity.Multiply(len(p.nodes))
}

// Available 整个节点池剩余资源
func (p *Pool) Available() common.Resource {
	var total common.Resource
	for _, n := range p.nodes {
		total = total.Add(n.Available)
	}
	return total
}

// Reset 所有节点恢复满容量
func (p *Pool) Reset() {
	for _, n := range p.nodes {
		n.Reset()
	}
}
