package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"volScope/internal/model"
)

// JsonlStorage writes records to a JSONL file, or stdout when path is "-".
type JsonlStorage struct {
	path   string
	stdout io.Writer
	mu     sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path, stdout: os.Stdout}
}

// PutPoolMetrics appends one line per pool.
func (s *JsonlStorage) PutPoolMetrics(_ context.Context, observedAt time.Time, metrics []model.DerivedPoolMetrics) error {
	records := make([]PoolMetricsRecord, 0, len(metrics))
	for _, m := range metrics {
		records = append(records, PoolMetricsRecord{ObservedAt: observedAt.Unix(), DerivedPoolMetrics: m})
	}
	return appendLines(s, records)
}

// PutChartDays appends one line per day.
func (s *JsonlStorage) PutChartDays(_ context.Context, address string, days []model.DailyChartEntry) error {
	records := make([]ChartDayRecord, 0, len(days))
	for _, day := range days {
		records = append(records, ChartDayRecord{Address: address, DailyChartEntry: day})
	}
	return appendLines(s, records)
}

func appendLines[T any](s *JsonlStorage, records []T) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, closeFn, err := s.open()
	if err != nil {
		return err
	}
	defer closeFn()

	writer := bufio.NewWriter(out)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func (s *JsonlStorage) open() (io.Writer, func(), error) {
	if s.path == "-" {
		return s.stdout, func() {}, nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
