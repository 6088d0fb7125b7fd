package sink

import (
	"context"
	"fmt"
	"strings"

	"placesim/internal/common"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Row 一个 (队列策略, 放置策略) 组合的结果
type Row struct {
	RunID             string  `csv:"-" json:"run_id"`
	QueuePolicy       string  `csv:"Queue Policy" json:"queue_policy"`
	NodePolicy        string  `csv:"Node Policy" json:"node_policy"`
	CPUUtilization    float64 `csv:"CPU Utilization" json:"cpu_utilization"`
	MemoryUtilization float64 `csv:"Memory Utilization" json:"memory_utilization"`
	Placed            int     `csv:"-" json:"placed"`
	Dropped           int     `csv:"-" json:"dropped"`
}

// Key 组合键 "<queue>/<node>"
func (r Row) Key() string {
	return r.QueuePolicy + "/" + r.NodePolicy
}

// Sink 结果输出
type Sink interface {
	Write(ctx context.Context, rows []Row) error
	Close() error
}

// 支持的输出类型
const (
	TypeCSV     = "csv"
	TypeParquet = "parquet"
	TypeKafka   = "kafka"
	TypeLog     = "log"
)

// New 根据配置创建输出
func New(cfg common.SinkConfig, logger *zap.Logger) (Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case TypeCSV:
		path := cfg.Path
		if path == "" {
			path = common.DefaultResultsFile
		}
		return NewCSVSink(path)
	case TypeParquet:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: parquet sink requires a path", common.ErrInvalidConfiguration)
		}
		return NewParquetSink(cfg.Path)
	case TypeKafka:
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("%w: kafka sink requires brokers and topic", common.ErrInvalidConfiguration)
		}
		return NewKafkaSink(cfg.Brokers, cfg.Topic), nil
	case TypeLog:
		return NewLogSink(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown sink type %q", common.ErrInvalidConfiguration, cfg.Type)
	}
}

// NewFromConfigs 创建所有配置的输出；任何一个失败时关闭已创建的输出
func NewFromConfigs(cfgs []common.SinkConfig, logger *zap.Logger) (*Multi, error) {
	sinks := make([]Sink, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := New(cfg, logger)
		if err != nil {
			return nil, multierr.Append(err, NewMulti(sinks...).Close())
		}
		sinks = append(sinks, s)
	}
	return NewMulti(sinks...), nil
}

// Multi 把结果写入多个输出
type Multi struct {
	sinks []Sink
}

// NewMulti 创建组合输出
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Write 写入所有输出，一个失败不影响其余输出
func (m *Multi) Write(ctx context.Context, rows []Row) error {
	var err error
	for _, s := range m.sinks {
		err = multierr.Append(err, s.Write(ctx, rows))
	}
	return err
}

func (m *Multi) Close() error {
	var err error
	for _, s := range m.sinks {
		err = multierr.Append(err, s.Close())
	}
	return err
}

// Len 输出个数
func (m *Multi) Len() int {
	return len(m.sinks)
}
