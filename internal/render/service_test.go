package render

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/framewright/framewright-editor/internal/db"
	"github.com/framewright/framewright-editor/internal/editor"
	"github.com/framewright/framewright-editor/internal/events"
	"github.com/framewright/framewright-editor/internal/timeline"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func setupRenderTest(t *testing.T, gw Gateway) (*Service, editor.Repository, *editor.Project, *capturingPublisher) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	repo := editor.NewRepository(database.Conn())

	project := &editor.Project{
		ID: editor.NewID(), Name: "Render Test", FPS: 30, Width: 1280, Height: 720,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := repo.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	publisher := &capturingPublisher{}
	svc := NewService(repo, gw, NewPoller(gw, time.Millisecond, nil), publisher, nil)
	t.Cleanup(svc.Close)
	return svc, repo, project, publisher
}

// blockingGateway holds every progress poll until released so tests can
// observe the in-flight state deterministically.
type blockingGateway struct {
	fakeGateway
	release chan struct{}
}

func (g *blockingGateway) Progress(ctx context.Context, handle Handle) (Progress, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return Progress{}, ctx.Err()
	}
	return g.fakeGateway.Progress(ctx, handle)
}

func waitForEvent(t *testing.T, publisher *capturingPublisher, eventType string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, got := range publisher.types() {
			if got == eventType {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("event %q was never published, saw %v", eventType, publisher.types())
}

func waitForTerminalStatus(t *testing.T, svc *Service, projectID string) *editor.RenderRecord {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec, err := svc.Status(context.Background(), projectID)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if rec != nil && (rec.Status == editor.RenderStatusDone || rec.Status == editor.RenderStatusError) {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("render never reached a terminal status")
	return nil
}

func TestService_Start_CompletesRender(t *testing.T) {
	gw := &fakeGateway{
		handle: Handle{RenderID: "r-1", BucketName: "bucket-1"},
		responses: []Progress{
			{Type: ProgressTypeProgress, Progress: 0.5},
			{Type: ProgressTypeDone, Progress: 1, URL: "https://cdn.example.com/out.mp4", Size: 4096},
		},
	}
	svc, _, project, publisher := setupRenderTest(t, gw)

	overlays := timeline.Collection{{ID: 1, Type: timeline.TypeVideo, DurationInFrames: 90}}
	rec, err := svc.Start(context.Background(), project, overlays, 90)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if rec.Status != editor.RenderStatusInvoking {
		t.Errorf("initial status = %q, want invoking", rec.Status)
	}

	final := waitForTerminalStatus(t, svc, project.ID)
	if final.Status != editor.RenderStatusDone {
		t.Fatalf("final status = %q (error %q), want done", final.Status, final.Error)
	}
	if final.URL != "https://cdn.example.com/out.mp4" || final.Size != 4096 || final.Progress != 1 {
		t.Errorf("final record = %+v, want url, size and full progress", final)
	}
	if final.BucketName != "bucket-1" {
		t.Errorf("BucketName = %q, want bucket-1", final.BucketName)
	}

	waitForEvent(t, publisher, events.TypeRenderDone)
	got := publisher.types()
	if len(got) < 3 || got[0] != events.TypeRenderStarted || got[len(got)-1] != events.TypeRenderDone {
		t.Errorf("event sequence = %v, want started..done", got)
	}
}

func TestService_Start_BackendFailure(t *testing.T) {
	gw := &fakeGateway{
		handle: Handle{RenderID: "r-1", BucketName: "bucket-1"},
		responses: []Progress{
			{Type: ProgressTypeError, ErrorMessage: "TypeError: Failed to fetch"},
		},
	}
	svc, _, project, publisher := setupRenderTest(t, gw)

	if _, err := svc.Start(context.Background(), project, nil, 30); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	final := waitForTerminalStatus(t, svc, project.ID)
	if final.Status != editor.RenderStatusError {
		t.Fatalf("final status = %q, want error", final.Status)
	}
	if final.Error != diskSpaceHint {
		t.Errorf("Error = %q, want the disk space hint", final.Error)
	}

	waitForEvent(t, publisher, events.TypeRenderFailed)
}

func TestService_Start_RejectsConcurrentRender(t *testing.T) {
	gw := &blockingGateway{
		fakeGateway: fakeGateway{
			handle: Handle{RenderID: "r-1", BucketName: "bucket-1"},
			responses: []Progress{
				{Type: ProgressTypeDone, Progress: 1},
			},
		},
		release: make(chan struct{}),
	}
	svc, _, project, _ := setupRenderTest(t, gw)

	if _, err := svc.Start(context.Background(), project, nil, 30); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if _, err := svc.Start(context.Background(), project, nil, 30); err == nil {
		t.Error("second Start() = nil error while a render is in flight, want error")
	}

	close(gw.release)
	waitForTerminalStatus(t, svc, project.ID)
}

func TestService_Status_NeverRendered(t *testing.T) {
	svc, _, project, _ := setupRenderTest(t, &fakeGateway{})
	rec, err := svc.Status(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if rec != nil {
		t.Errorf("Status() = %+v, want nil for never-rendered project", rec)
	}
}
