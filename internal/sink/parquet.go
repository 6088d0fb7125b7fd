package sink

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go/writer"
)

type parquetRow struct {
	RunID             string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	QueuePolicy       string  `parquet:"name=queue_policy, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	NodePolicy        string  `parquet:"name=node_policy, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	CPUUtilization    float64 `parquet:"name=cpu_utilization, type=DOUBLE"`
	MemoryUtilization float64 `parquet:"name=memory_utilization, type=DOUBLE"`
	Placed            int64   `parquet:"name=placed, type=INT64"`
	Dropped           int64   `parquet:"name=dropped, type=INT64"`
}

// ParquetSink 以 parquet 文件输出结果
type ParquetSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *writer.ParquetWriter
}

// NewParquetSink 创建 parquet 文件
func NewParquetSink(path string) (*ParquetSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create parquet file %s", path)
	}
	pw, err := writer.NewParquetWriterFromWriter(file, new(parquetRow), 1)
	if err != nil {
		_ = file.Close()
		return nil, errors.WithStack(err)
	}
	return &ParquetSink{file: file, writer: pw}, nil
}

func (s *ParquetSink) Write(_ context.Context, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		err := s.writer.Write(parquetRow{
			RunID:             r.RunID,
			QueuePolicy:       r.QueuePolicy,
			NodePolicy:        r.NodePolicy,
			CPUUtilization:    r.CPUUtilization,
			MemoryUtilization: r.MemoryUtilization,
			Placed:            int64(r.Placed),
			Dropped:           int64(r.Dropped),
		})
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Close 写入文件尾并关闭文件
func (s *ParquetSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.WriteStop(); err != nil {
		_ = s.file.Close()
		return errors.WithMessage(err, "could not cleanly close parquet file")
	}
	return s.file.Close()
}
