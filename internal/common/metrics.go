package common

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	policyLabels = []string{"queue_policy", "node_policy"}

	// JobsPlaced 成功放置的作业数
	JobsPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placesim_jobs_placed_total",
		Help: "Number of jobs placed on a worker node",
	}, policyLabels)

	// JobsDropped 没有可用节点而被丢弃的作业数
	JobsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placesim_jobs_dropped_total",
		Help: "Number of jobs that found no eligible worker node",
	}, policyLabels)

	CPUUtilization = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "placesim_cpu_utilization_percent",
		Help: "CPU utilization of the worker pool at the end of the last run",
	}, policyLabels)

	MemoryUtilization = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "placesim_memory_utilization_percent",
		Help: "Memory utilization of the worker pool at the end of the last run",
	}, policyLabels)

	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "placesim_run_duration_seconds",
		Help:    "Wall time of a single policy-pair simulation run",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	metricsList = []prometheus.Collector{
		JobsPlaced,
		JobsDropped,
		CPUUtilization,
		MemoryUtilization,
		RunDuration,
	}
)

var registerMetrics sync.Once

// RegisterMetrics 向默认注册表注册指标，重复调用无副作用
func RegisterMetrics() {
	registerMetrics.Do(func() {
		prometheus.MustRegister(metricsList...)
	})
}

// RecordRun 记录一次策略组合运行的结果
func RecordRun(queuePolicy, nodePolicy string, placed, dropped int, cpu, memory float64, took time.Duration) {
	JobsPlaced.WithLabelValues(queuePolicy, nodePolicy).Add(float64(placed))
	JobsDropped.WithLabelValues(queuePolicy, nodePolicy).Add(float64(dropped))
	CPUUtilization.WithLabelValues(queuePolicy, nodePolicy).Set(cpu)
	MemoryUtilization.WithLabelValues(queuePolicy, nodePolicy).Set(memory)
	RunDuration.Observe(took.Seconds())
}
