package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/framewright/framewright-editor/internal/config"
)

// Service manages projects and their open sessions. Sessions live in memory;
// the repository holds the persisted form and is only touched on open, save
// and delete.
type Service struct {
	repo   Repository
	comp   config.Composition
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(repo Repository, comp config.Composition, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		comp:     comp,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// CreateProject persists a new empty project. Zero-valued composition
// parameters inherit the configured defaults.
func (s *Service) CreateProject(ctx context.Context, name string, fps, width, height int) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if fps <= 0 {
		fps = s.comp.FPS
	}
	if width <= 0 {
		width = s.comp.Width
	}
	if height <= 0 {
		height = s.comp.Height
	}

	now := time.Now()
	project := &Project{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		FPS:       fps,
		Width:     width,
		Height:    height,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("project created", "project_id", project.ID, "name", project.Name, "fps", fps)
	}
	return project, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.repo.ListProjects(ctx)
}

// DeleteProject removes the persisted project and closes any open session.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return s.repo.DeleteProject(ctx, id)
}

// OpenSession loads the project and returns its live session, creating one
// when the project is not already open.
func (s *Service) OpenSession(ctx context.Context, projectID string) (*Session, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[projectID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project not found")
	}

	sess := NewSession(project, s.comp)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[projectID]; ok {
		// Lost the race to another open; keep the first session.
		return existing, nil
	}
	s.sessions[projectID] = sess

	if s.logger != nil {
		s.logger.Info("session opened", "project_id", projectID, "overlays", len(project.Overlays))
	}
	return sess, nil
}

// Session returns the open session for a project, if any.
func (s *Service) Session(projectID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[projectID]
	return sess, ok
}

// SaveSession persists the session's current overlay collection.
func (s *Service) SaveSession(ctx context.Context, projectID string) error {
	sess, ok := s.Session(projectID)
	if !ok {
		return fmt.Errorf("no open session for project %s", projectID)
	}

	if err := s.repo.UpdateProjectOverlays(ctx, projectID, sess.Overlays()); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("session saved", "project_id", projectID)
	}
	return nil
}

// CloseSession drops the in-memory session without saving.
func (s *Service) CloseSession(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, projectID)
}

// SessionCount reports how many sessions are open.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
