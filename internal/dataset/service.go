package dataset

import (
	"sync"

	"go.uber.org/zap"
)

// Service owns the loaded table. The load is lazy and guarded: the first
// caller pays the cost, and the table is cached only after a successful
// load, so a missing file can be fixed and retried without restarting.
// Reads after load need no locking; the table is never written again.
type Service struct {
	path string

	mu    sync.Mutex
	table *Table
}

// NewService creates a dataset service for the file at path. The file is
// not touched until the first Table call.
func NewService(path string) *Service {
	return &Service{path: path}
}

// Path returns the resolved dataset path.
func (s *Service) Path() string {
	return s.path
}

// Table returns the loaded table, loading it on first use.
func (s *Service) Table() (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table != nil {
		return s.table, nil
	}

	t, err := Load(s.path)
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset loaded",
		zap.String("path", s.path),
		zap.Int("rows", len(t.Rows)),
	)
	s.table = t
	return t, nil
}
