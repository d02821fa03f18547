package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/enroll-etl/internal/models"
)

type rawSink interface {
	Replace(ctx context.Context, records []models.FlatEnrollmentRecord) error
}

// DumpService orchestrates the unnormalized raw dump. It targets its own
// store so a failure here can never affect a normalized load.
type DumpService struct {
	sink   rawSink
	logger *zap.Logger
}

// NewDumpService constructs DumpService.
func NewDumpService(sink rawSink, logger *zap.Logger) *DumpService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DumpService{sink: sink, logger: logger}
}

// Run rewrites the raw table with the given records.
func (s *DumpService) Run(ctx context.Context, records []models.FlatEnrollmentRecord) error {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	log.Info("raw dump starting", zap.Int("records", len(records)))
	if err := s.sink.Replace(ctx, records); err != nil {
		log.Error("raw dump failed", zap.Error(err))
		return err
	}
	log.Info("raw dump complete", zap.Int("records", len(records)))
	return nil
}
