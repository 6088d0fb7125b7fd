package sink

import (
	"context"
	"os"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// CSVSink 以 CSV 文件输出结果，表头只写一次
type CSVSink struct {
	mu            sync.Mutex
	file          *os.File
	headerWritten bool
}

// NewCSVSink 创建（或截断）CSV 文件
func NewCSVSink(path string) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create csv file %s", path)
	}
	return &CSVSink{file: file}, nil
}

func (s *CSVSink) Write(_ context.Context, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(rows) == 0 && s.headerWritten {
		return nil
	}
	if !s.headerWritten {
		if err := gocsv.Marshal(rows, s.file); err != nil {
			return errors.WithStack(err)
		}
		s.headerWritten = true
		return nil
	}
	return errors.WithStack(gocsv.MarshalWithoutHeaders(rows, s.file))
}

func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
