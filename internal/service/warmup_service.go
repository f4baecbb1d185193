package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-performance-api/pkg/jobs"
)

// WarmupJobType identifies performance cache warm-up jobs.
const WarmupJobType = "performance.warm"

type cacheWarmer interface {
	Warm(ctx context.Context, subjectCode, professorID string) error
}

// WarmupPayload is the job payload for a warm-up.
type WarmupPayload struct {
	SubjectCode string
	ProfessorID string
}

// WarmupService re-populates performance snapshots in the background after a refresh.
type WarmupService struct {
	warmer  cacheWarmer
	metrics *MetricsService
	logger  *zap.Logger
	queue   *jobs.Queue
	timeout time.Duration
}

// NewWarmupService builds the service and its worker queue. Call Start before scheduling.
func NewWarmupService(warmer cacheWarmer, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *WarmupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Logger = logger
	svc := &WarmupService{warmer: warmer, metrics: metrics, logger: logger, timeout: 30 * time.Second}
	svc.queue = jobs.NewQueue("performance-warmup", svc.handle, cfg)
	return svc
}

// Start launches the workers.
func (s *WarmupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *WarmupService) Stop() {
	s.queue.Stop()
}

// Schedule enqueues a warm-up for a subject and returns the job id. It never
// blocks: a busy queue yields jobs.ErrQueueFull.
func (s *WarmupService) Schedule(subjectCode, professorID string) (string, error) {
	return s.queue.Enqueue(jobs.Job{
		Type:    WarmupJobType,
		Payload: WarmupPayload{SubjectCode: subjectCode, ProfessorID: professorID},
	})
}

func (s *WarmupService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(WarmupPayload)
	if !ok {
		s.metrics.RecordWarmup(false)
		s.logger.Error("unexpected warm-up payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.warmer.Warm(ctx, payload.SubjectCode, payload.ProfessorID); err != nil {
		s.metrics.RecordWarmup(false)
		return fmt.Errorf("warm %s for %s: %w", payload.SubjectCode, payload.ProfessorID, err)
	}
	s.metrics.RecordWarmup(true)
	s.logger.Info("performance cache warmed",
		zap.String("job_id", job.ID),
		zap.String("subject_code", payload.SubjectCode),
		zap.String("professor_id", payload.ProfessorID),
	)
	return nil
}
