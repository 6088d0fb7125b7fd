package workload

import (
	"math/rand"

	"placesim/internal/cluster"
	"placesim/internal/common"

	"gonum.org/v1/gonum/stat"
)

// Generate 按配置生成合成作业，相同 seed 生成相同序列
// 每个作业依次抽取 到达时间、核数、内存、执行时长；非正的上界使用默认值
func Generate(cfg common.WorkloadConfig) []cluster.Job {
	if cfg.Jobs <= 0 {
		return nil
	}
	cfg = withDefaultBounds(cfg)
	r := rand.New(rand.NewSource(cfg.Seed))

	jobs := make([]cluster.Job, 0, cfg.Jobs)
	for i := 0; i < cfg.Jobs; i++ {
		arrival := r.Intn(cfg.MaxArrivalTime)
		vcores := r.Int31n(cfg.MaxVCores) + 1
		memory := r.Int63n(cfg.MaxMemory) + 1
		execution := r.Intn(cfg.MaxExecutionTime) + 1

		jobs = append(jobs, cluster.NewJob(i, arrival, vcores, memory, execution))
	}
	return jobs
}

func withDefaultBounds(cfg common.WorkloadConfig) common.WorkloadConfig {
	if cfg.MaxArrivalTime <= 0 {
		cfg.MaxArrivalTime = common.DefaultMaxArrivalTime
	}
	if cfg.MaxVCores <= 0 {
		cfg.MaxVCores = common.DefaultNodeVCores
	}
	if cfg.MaxMemory <= 0 {
		cfg.MaxMemory = common.DefaultNodeMemory
	}
	if cfg.MaxExecutionTime <= 0 {
		cfg.MaxExecutionTime = common.DefaultMaxExecutionTime
	}
	return cfg
}

// Summary 负载统计
type Summary struct {
	Jobs int `json:"jobs"`

	TotalVCores int64 `json:"total_vcores"`
	TotalMemory int64 `json:"total_memory"`

	MeanVCores        float64 `json:"mean_vcores"`
	StdDevVCores      float64 `json:"stddev_vcores"`
	MeanMemory        float64 `json:"mean_memory"`
	StdDevMemory      float64 `json:"stddev_memory"`
	MeanExecutionTime float64 `json:"mean_execution_time"`
}

// Summarize 计算负载的需求均值和标准差
func Summarize(jobs []cluster.Job) Summary {
	summary := Summary{Jobs: len(jobs)}
	if len(jobs) == 0 {
		return summary
	}

	vcores := make([]float64, len(jobs))
	memory := make([]float64, len(jobs))
	execution := make([]float64, len(jobs))
	for i, job := range jobs {
		vcores[i] = float64(job.Resource.VCores)
		memory[i] = float64(job.Resource.Memory)
		execution[i] = float64(job.ExecutionTime)

		summary.TotalVCores += int64(job.Resource.VCores)
		summary.TotalMemory += job.Resource.Memory
	}

	summary.MeanVCores, summary.StdDevVCores = stat.MeanStdDev(vcores, nil)
	summary.MeanMemory, summary.StdDevMemory = stat.MeanStdDev(memory, nil)
	summary.MeanExecutionTime = stat.Mean(execution, nil)

	// 单个样本时标准差无定义
	if len(jobs) == 1 {
		summary.StdDevVCores = 0
		summary.StdDevMemory = 0
	}
	return summary
}
