package importer

import (
	"context"
	"fmt"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/pkg/logger"
	"github.com/brightclass/roster/internal/pkg/objectstore"
)

// Service runs one claimed import job end to end: fetch, parse, process,
// report. Any returned error means the job was not finished and keeps its
// PROCESSING status for a later reclaim.
type Service struct {
	objects  objectstore.Store
	refCache *ReferenceCache
	engine   *Engine
	reporter *Reporter
}

// NewService creates an import service
func NewService(objects objectstore.Store, refCache *ReferenceCache, engine *Engine, reporter *Reporter) *Service {
	return &Service{
		objects:  objects,
		refCache: refCache,
		engine:   engine,
		reporter: reporter,
	}
}

// Run processes a claimed job and writes its terminal state
func (s *Service) Run(ctx context.Context, job *models.ImportJob) (models.ImportSummary, error) {
	logger.Info().Str("jobId", job.ID).Str("schoolId", job.SchoolID).
		Str("bucket", job.Bucket).Str("key", job.Key).
		Msg("Starting import job")

	data, err := s.objects.Get(ctx, job.Bucket, job.Key)
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("error fetching import file %s/%s: %w", job.Bucket, job.Key, err)
	}

	table, err := ParseTable(data)
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("error parsing import file %s/%s: %w", job.Bucket, job.Key, err)
	}

	bundle, err := s.refCache.Get(ctx, job.SchoolID)
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("error loading reference data for school %s: %w", job.SchoolID, err)
	}

	outcome, err := s.engine.ProcessTable(ctx, job.SchoolID, table, bundle)
	if err != nil {
		return models.ImportSummary{}, err
	}

	summary, err := s.reporter.Finish(ctx, job, outcome)
	if err != nil {
		return summary, err
	}

	logger.Info().Str("jobId", job.ID).Str("status", string(job.Status)).
		Int("processed", summary.ProcessedLines).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("Import job finished")

	return summary, nil
}
