package editor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/framewright/framewright-editor/internal/config"
	"github.com/framewright/framewright-editor/internal/db"
	"github.com/framewright/framewright-editor/internal/timeline"
)

func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewRepository(database.Conn())
}

func setupTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupTestRepo(t), config.DefaultComposition(), nil)
}

func TestService_CreateProject(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "  Launch Teaser  ", 0, 0, 0)
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.Name != "Launch Teaser" {
		t.Errorf("Name = %q, want trimmed %q", p.Name, "Launch Teaser")
	}
	if p.FPS != 30 || p.Width != 1280 || p.Height != 720 {
		t.Errorf("composition defaults not applied: fps=%d width=%d height=%d", p.FPS, p.Width, p.Height)
	}

	got, err := svc.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if got == nil || got.ID != p.ID {
		t.Fatalf("GetProject() = %+v, want project %s", got, p.ID)
	}
}

func TestService_CreateProject_EmptyName(t *testing.T) {
	svc := setupTestService(t)
	if _, err := svc.CreateProject(context.Background(), "   ", 30, 1280, 720); err == nil {
		t.Error("CreateProject() with blank name = nil error, want error")
	}
}

func TestService_OpenSaveSession(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "Roundtrip", 30, 1280, 720)
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	sess, err := svc.OpenSession(ctx, p.ID)
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if svc.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", svc.SessionCount())
	}

	again, err := svc.OpenSession(ctx, p.ID)
	if err != nil {
		t.Fatalf("second OpenSession() error = %v", err)
	}
	if again != sess {
		t.Error("second OpenSession() returned a different session")
	}

	added, err := sess.AddOverlay(timeline.Overlay{
		Type:             timeline.TypeVideo,
		DurationInFrames: 90,
		Src:              "https://cdn.example.com/clip.mp4",
	}, true)
	if err != nil {
		t.Fatalf("AddOverlay() error = %v", err)
	}

	if err := svc.SaveSession(ctx, p.ID); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	svc.CloseSession(p.ID)
	if svc.SessionCount() != 0 {
		t.Errorf("SessionCount() after close = %d, want 0", svc.SessionCount())
	}

	reopened, err := svc.OpenSession(ctx, p.ID)
	if err != nil {
		t.Fatalf("reopen OpenSession() error = %v", err)
	}
	overlays := reopened.Overlays()
	if len(overlays) != 1 {
		t.Fatalf("reloaded overlay count = %d, want 1", len(overlays))
	}
	got := overlays[0]
	if got.ID != added.ID || got.Type != timeline.TypeVideo || got.DurationInFrames != 90 || got.Src != added.Src {
		t.Errorf("reloaded overlay = %+v, want %+v", got, added)
	}
}

func TestService_OpenSession_UnknownProject(t *testing.T) {
	svc := setupTestService(t)
	if _, err := svc.OpenSession(context.Background(), "nope"); err == nil {
		t.Error("OpenSession() for missing project = nil error, want error")
	}
}

func TestService_SaveSession_NotOpen(t *testing.T) {
	svc := setupTestService(t)
	if err := svc.SaveSession(context.Background(), "nope"); err == nil {
		t.Error("SaveSession() without open session = nil error, want error")
	}
}

func TestService_DeleteProject_ClosesSession(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	p, _ := svc.CreateProject(ctx, "Doomed", 30, 1280, 720)
	if _, err := svc.OpenSession(ctx, p.ID); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}

	if err := svc.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if svc.SessionCount() != 0 {
		t.Errorf("SessionCount() = %d after delete, want 0", svc.SessionCount())
	}
	got, err := svc.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if got != nil {
		t.Error("project still present after delete")
	}
}

func TestService_ListProjects(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		if _, err := svc.CreateProject(ctx, name, 30, 1280, 720); err != nil {
			t.Fatalf("CreateProject(%q) error = %v", name, err)
		}
	}
	projects, err := svc.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 3 {
		t.Errorf("ListProjects() returned %d projects, want 3", len(projects))
	}
}

func TestRepository_RenderLifecycle(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	project := &Project{
		ID: NewID(), Name: "Render Me", FPS: 30, Width: 1280, Height: 720,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := repo.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	rec := &RenderRecord{
		ID:        NewID(),
		ProjectID: project.ID,
		Status:    RenderStatusInvoking,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := repo.CreateRender(ctx, rec); err != nil {
		t.Fatalf("CreateRender() error = %v", err)
	}

	rec.Status = RenderStatusRendering
	rec.BucketName = "renders-bucket"
	rec.Progress = 0.4
	if err := repo.UpdateRender(ctx, rec); err != nil {
		t.Fatalf("UpdateRender() error = %v", err)
	}

	got, err := repo.GetRender(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetRender() error = %v", err)
	}
	if got.Status != RenderStatusRendering || got.BucketName != "renders-bucket" || got.Progress != 0.4 {
		t.Errorf("GetRender() = %+v, want rendering at 0.4 in renders-bucket", got)
	}

	latest, err := repo.LatestRenderForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("LatestRenderForProject() error = %v", err)
	}
	if latest == nil || latest.ID != rec.ID {
		t.Errorf("LatestRenderForProject() = %+v, want render %s", latest, rec.ID)
	}
}

func TestRepository_GetRender_NotFound(t *testing.T) {
	repo := setupTestRepo(t)
	got, err := repo.GetRender(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetRender() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetRender() = %+v, want nil", got)
	}
}

func TestRepository_Media(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	m := &MediaFile{
		ID:        NewID(),
		Filename:  "clip.mp4",
		Path:      "/media/clip.mp4",
		Size:      1024,
		DurationS: 12.5,
		CreatedAt: time.Now(),
	}
	if err := repo.CreateMedia(ctx, m); err != nil {
		t.Fatalf("CreateMedia() error = %v", err)
	}
	got, err := repo.GetMedia(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMedia() error = %v", err)
	}
	if got.Filename != m.Filename || got.DurationS != 12.5 {
		t.Errorf("GetMedia() = %+v, want %+v", got, m)
	}
}

func TestRepository_Config(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	got, err := repo.GetConfig(ctx, "auth_token")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got != "" {
		t.Errorf("GetConfig() on empty table = %q, want empty", got)
	}

	if err := repo.SetConfig(ctx, "auth_token", "secret-1"); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if err := repo.SetConfig(ctx, "auth_token", "secret-2"); err != nil {
		t.Fatalf("SetConfig() upsert error = %v", err)
	}

	got, err = repo.GetConfig(ctx, "auth_token")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got != "secret-2" {
		t.Errorf("GetConfig() = %q, want %q", got, "secret-2")
	}
}
