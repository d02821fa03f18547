package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/enroll-etl/internal/models"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

type schemaManager interface {
	Reset(ctx context.Context) error
}

type loader interface {
	Load(ctx context.Context, set models.EntitySet, records []models.FlatEnrollmentRecord) (*models.LoadSummary, error)
}

type projector interface {
	Project(records []models.FlatEnrollmentRecord) (*models.EntitySet, error)
}

// LoadService orchestrates one normalized load run: projection, schema
// rebuild, then the transactional entity/fact load. Each run is tagged with
// a run id so every log line of a batch can be correlated.
type LoadService struct {
	schema    schemaManager
	loader    loader
	projector projector
	logger    *zap.Logger
}

// NewLoadService constructs LoadService.
func NewLoadService(schema schemaManager, loader loader, projector projector, logger *zap.Logger) *LoadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadService{schema: schema, loader: loader, projector: projector, logger: logger}
}

// Run executes the pipeline over the given flat records and returns the row
// counts written. The first failing phase aborts the run; the normalized
// store is never left partially written because the load itself is a single
// transaction against a freshly rebuilt schema.
func (s *LoadService) Run(ctx context.Context, records []models.FlatEnrollmentRecord) (*models.LoadSummary, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))
	start := time.Now()

	log.Info("load run starting", zap.Int("records", len(records)))

	set, err := s.projector.Project(records)
	if err != nil {
		log.Error("projection failed", zap.Error(err))
		return nil, err
	}
	log.Info("entities projected",
		zap.Int("students", len(set.Students)),
		zap.Int("teachers", len(set.Teachers)),
		zap.Int("courses", len(set.Courses)),
	)

	if err := s.schema.Reset(ctx); err != nil {
		log.Error("schema rebuild failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseSchema, "rebuild normalized schema")
	}
	log.Info("schema rebuilt")

	summary, err := s.loader.Load(ctx, *set, records)
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}

	if summary.Enrollments != len(records) {
		return nil, appErrors.Wrap(nil, appErrors.ErrInternal.Code, appErrors.PhaseFacts,
			fmt.Sprintf("loaded %d enrollment rows for %d input records", summary.Enrollments, len(records)))
	}

	log.Info("load run complete",
		zap.Int("students", summary.Students),
		zap.Int("teachers", summary.Teachers),
		zap.Int("courses", summary.Courses),
		zap.Int("enrollments", summary.Enrollments),
		zap.Duration("elapsed", time.Since(start)),
	)

	return summary, nil
}
