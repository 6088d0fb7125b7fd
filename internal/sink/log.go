package sink

import (
	"context"

	"go.uber.org/zap"
)

// LogSink 通过日志输出结果
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(_ context.Context, rows []Row) error {
	for _, r := range rows {
		s.logger.Info("Utilization result",
			zap.String("run_id", r.RunID),
			zap.String("queue_policy", r.QueuePolicy),
			zap.String("node_policy", r.NodePolicy),
			zap.Float64("cpu_utilization", r.CPUUtilization),
			zap.Float64("memory_utilization", r.MemoryUtilization),
			zap.Int("placed", r.Placed),
			zap.Int("dropped", r.Dropped))
	}
	return nil
}

func (s *LogSink) Close() error {
	return nil
}
