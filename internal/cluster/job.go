package cluster

import (
	"fmt"

	"placesim/internal/common"
)

// Job 作业：资源需求加执行时长
type Job struct {
	ID            int             `json:"id"`
	ArrivalTime   int             `json:"arrival_time"` // 仅作记录，不参与放置
	Resource      common.Resource `json:"resource"`
	ExecutionTime int             `json:"execution_time"`

	value int64
}

// NewJob 创建作业，value 在创建时计算一次
func NewJob(id, arrivalTime int, vcores int32, memory int64, executionTime int) Job {
	return Job{
		ID:            id,
		ArrivalTime:   arrivalTime,
		Resource:      common.Resource{Memory: memory, VCores: vcores},
		ExecutionTime: executionTime,
		value:         int64(vcores) * memory * int64(executionTime),
	}
}

// Value 返回 cores * memory * execution_time，仅用作排序键
func (j Job) Value() int64 {
	return j.value
}

func (j Job) String() string {
	return fmt.Sprintf("Job %d{VCores: %d, Memory: %d, ExecutionTime: %d}",
		j.ID, j.Resource.VCores, j.Resource.Memory, j.ExecutionTime)
}
