package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/framewright/framewright-editor/internal/editor"
	"github.com/framewright/framewright-editor/internal/events"
	"github.com/framewright/framewright-editor/internal/timeline"
)

// Service orchestrates renders: it records them, drives the backend through
// the poller and publishes lifecycle events. One render per project may be
// in flight at a time.
type Service struct {
	repo      editor.Repository
	gateway   Gateway
	poller    *Poller
	publisher events.Publisher
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[string]context.CancelFunc // project id -> cancel
}

func NewService(repo editor.Repository, gateway Gateway, poller *Poller, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		repo:      repo,
		gateway:   gateway,
		poller:    poller,
		publisher: publisher,
		logger:    logger,
		inFlight:  make(map[string]context.CancelFunc),
	}
}

// Start kicks off a render for the project's current overlay collection and
// returns the record immediately; progress is tracked asynchronously.
func (s *Service) Start(ctx context.Context, project *editor.Project, overlays timeline.Collection, durationInFrames int) (*editor.RenderRecord, error) {
	s.mu.Lock()
	if _, busy := s.inFlight[project.ID]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("a render is already in flight for project %s", project.ID)
	}
	pollCtx, cancel := context.WithCancel(context.Background())
	s.inFlight[project.ID] = cancel
	s.mu.Unlock()

	now := time.Now()
	rec := &editor.RenderRecord{
		ID:        editor.NewID(),
		ProjectID: project.ID,
		Status:    editor.RenderStatusInvoking,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateRender(ctx, rec); err != nil {
		s.clearInFlight(project.ID)
		return nil, err
	}

	req := Request{
		ID: rec.ID,
		InputProps: InputProps{
			Overlays:         overlays,
			DurationInFrames: durationInFrames,
			FPS:              project.FPS,
			Width:            project.Width,
			Height:           project.Height,
		},
	}

	s.publish(ctx, events.Event{
		Type:      events.TypeRenderStarted,
		ProjectID: project.ID,
		RenderID:  rec.ID,
		Timestamp: now,
	})

	// The goroutine works on its own copy so the returned record stays
	// stable for the caller.
	tracked := *rec
	go s.run(pollCtx, &tracked, req)
	return rec, nil
}

// Cancel aborts the in-flight render for a project, if any.
func (s *Service) Cancel(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancel, ok := s.inFlight[projectID]
	if ok {
		cancel()
		delete(s.inFlight, projectID)
	}
	return ok
}

// Status returns the most recent render record for a project, or nil when
// the project was never rendered.
func (s *Service) Status(ctx context.Context, projectID string) (*editor.RenderRecord, error) {
	return s.repo.LatestRenderForProject(ctx, projectID)
}

// Close cancels every in-flight render.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cancel := range s.inFlight {
		cancel()
		delete(s.inFlight, id)
	}
}

func (s *Service) run(ctx context.Context, rec *editor.RenderRecord, req Request) {
	defer s.clearInFlight(rec.ProjectID)

	handle, err := s.gateway.Invoke(ctx, req)
	if err != nil {
		s.fail(ctx, rec, err.Error())
		return
	}

	rec.BucketName = handle.BucketName
	rec.Status = editor.RenderStatusRendering
	if err := s.repo.UpdateRender(ctx, rec); err != nil && s.logger != nil {
		s.logger.Error("failed to persist render state", "render_id", rec.ID, "error", err)
	}

	final, err := s.poller.Poll(ctx, handle, func(p Progress) {
		rec.Progress = p.Progress
		if err := s.repo.UpdateRender(ctx, rec); err != nil && s.logger != nil {
			s.logger.Error("failed to persist render progress", "render_id", rec.ID, "error", err)
		}
		s.publish(ctx, events.Event{
			Type:      events.TypeRenderProgress,
			ProjectID: rec.ProjectID,
			RenderID:  rec.ID,
			Progress:  p.Progress,
			Timestamp: time.Now(),
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			s.fail(context.Background(), rec, "render cancelled")
			return
		}
		s.fail(ctx, rec, err.Error())
		return
	}

	if final.Type == ProgressTypeError {
		s.fail(ctx, rec, final.ErrorMessage)
		return
	}

	rec.Status = editor.RenderStatusDone
	rec.Progress = 1
	rec.URL = final.URL
	rec.Size = final.Size
	if err := s.repo.UpdateRender(ctx, rec); err != nil && s.logger != nil {
		s.logger.Error("failed to persist render result", "render_id", rec.ID, "error", err)
	}

	if s.logger != nil {
		s.logger.Info("render finished", "render_id", rec.ID, "project_id", rec.ProjectID, "url", rec.URL, "size", rec.Size)
	}
	s.publish(ctx, events.Event{
		Type:      events.TypeRenderDone,
		ProjectID: rec.ProjectID,
		RenderID:  rec.ID,
		Progress:  1,
		URL:       rec.URL,
		Timestamp: time.Now(),
	})
}

func (s *Service) fail(ctx context.Context, rec *editor.RenderRecord, msg string) {
	rec.Status = editor.RenderStatusError
	rec.Error = msg
	if err := s.repo.UpdateRender(ctx, rec); err != nil && s.logger != nil {
		s.logger.Error("failed to persist render error", "render_id", rec.ID, "error", err)
	}

	if s.logger != nil {
		s.logger.Error("render failed", "render_id", rec.ID, "project_id", rec.ProjectID, "reason", msg)
	}
	s.publish(ctx, events.Event{
		Type:      events.TypeRenderFailed,
		ProjectID: rec.ProjectID,
		RenderID:  rec.ID,
		Error:     msg,
		Timestamp: time.Now(),
	})
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}

func (s *Service) clearInFlight(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.inFlight[projectID]; ok {
		cancel()
		delete(s.inFlight, projectID)
	}
}
