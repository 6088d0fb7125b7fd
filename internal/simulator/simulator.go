package simulator

import (
	"errors"
	"fmt"

	"placesim/internal/cluster"
	"placesim/internal/common"
	"placesim/internal/scheduler"

	"go.uber.org/zap"
)

// Result 一次模拟的利用率统计
type Result struct {
	UsedCores   int64 `json:"used_cores"`
	UsedMemory  int64 `json:"used_memory"`
	TotalCores  int64 `json:"total_cores"`
	TotalMemory int64 `json:"total_memory"`

	Placed  int `json:"placed"`
	Dropped int `json:"dropped"`

	// Assignments 作业 ID -> 节点 ID，被丢弃的作业不出现
	Assignments map[int]int `json:"assignments,omitempty"`

	CPUUtilization    float64 `json:"cpu_utilization"`
	MemoryUtilization float64 `json:"memory_utilization"`
}

// Simulator 按给定顺序把作业逐个放置到节点池
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator 创建模拟器，logger 为 nil 时不输出日志
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Run 依次为每个作业选择节点并分配资源，找不到节点的作业直接丢弃
// 作业一旦放置就不会释放，pool 在返回后保留最终状态
func (s *Simulator) Run(jobs []cluster.Job, pool *cluster.Pool, placer scheduler.Placer) (*Result, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, common.ErrEmptyPool
	}
	if placer == nil {
		return nil, fmt.Errorf("%w: placer is nil", common.ErrInvalidParameter)
	}

	total := pool.TotalCapacity()
	result := &Result{
		TotalCores:  int64(total.VCores),
		TotalMemory: total.Memory,
		Assignments: make(map[int]int, len(jobs)),
	}

	for _, job := range jobs {
		node := placer.FindNode(job, pool)
		if node == nil {
			result.Dropped++
			s.logger.Debug("No eligible node, dropping job",
				zap.String("placer", placer.Name()),
				zap.Int("job_id", job.ID),
				zap.Int32("vcores", job.Resource.VCores),
				zap.Int64("memory", job.Resource.Memory))
			continue
		}

		if err := node.Allocate(job); err != nil {
			var overAlloc *common.OverAllocationError
			if errors.As(err, &overAlloc) {
				s.logger.Error("Placer selected a node without enough capacity",
					zap.String("placer", placer.Name()),
					zap.Int("job_id", job.ID),
					zap.Int("node_id", overAlloc.NodeID))
			}
			return nil, fmt.Errorf("placing job %d with %s: %w", job.ID, placer.Name(), err)
		}

		result.Placed++
		result.UsedCores += int64(job.Resource.VCores)
		result.UsedMemory += job.Resource.Memory
		result.Assignments[job.ID] = node.ID
	}

	result.CPUUtilization = Utilization(result.UsedCores, result.TotalCores)
	result.MemoryUtilization = Utilization(result.UsedMemory, result.TotalMemory)

	s.logger.Debug("Simulation finished",
		zap.String("placer", placer.Name()),
		zap.Int("placed", result.Placed),
		zap.Int("dropped", result.Dropped),
		zap.Float64("cpu_utilization", result.CPUUtilization),
		zap.Float64("memory_utilization", result.MemoryUtilization))

	return result, nil
}

// Utilization 百分比，total 为 0 时返回 0
func Utilization(used, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(used) / float64(total)
}
