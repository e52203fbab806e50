package editor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/framewright/framewright-editor/internal/timeline"
)

type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProjectOverlays(ctx context.Context, id string, overlays timeline.Collection) error
	DeleteProject(ctx context.Context, id string) error

	CreateRender(ctx context.Context, r *RenderRecord) error
	GetRender(ctx context.Context, id string) (*RenderRecord, error)
	LatestRenderForProject(ctx context.Context, projectID string) (*RenderRecord, error)
	UpdateRender(ctx context.Context, r *RenderRecord) error

	CreateMedia(ctx context.Context, m *MediaFile) error
	GetMedia(ctx context.Context, id string) (*MediaFile, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p *Project) error {
	overlays, err := marshalOverlays(p.Overlays)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, fps, width, height, overlays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.FPS, p.Width, p.Height, overlays,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, fps, width, height, overlays, created_at, updated_at
		FROM projects WHERE id = ?
	`, id)
	return r.scanProject(row)
}

func (r *SQLiteRepository) scanProject(row *sql.Row) (*Project, error) {
	var p Project
	var overlays, createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Name, &p.FPS, &p.Width, &p.Height, &overlays, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(overlays), &p.Overlays); err != nil {
		return nil, fmt.Errorf("decode overlays for project %s: %w", p.ID, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, fps, width, height, overlays, created_at, updated_at
		FROM projects ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		var p Project
		var overlays, createdAt, updatedAt string

		if err := rows.Scan(&p.ID, &p.Name, &p.FPS, &p.Width, &p.Height, &overlays, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(overlays), &p.Overlays); err != nil {
			return nil, fmt.Errorf("decode overlays for project %s: %w", p.ID, err)
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) UpdateProjectOverlays(ctx context.Context, id string, overlays timeline.Collection) error {
	encoded, err := marshalOverlays(overlays)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE projects SET overlays = ?, updated_at = datetime('now') WHERE id = ?
	`, encoded, id)
	return err
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) CreateRender(ctx context.Context, rec *RenderRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO renders (id, project_id, bucket_name, status, progress, url, size, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ProjectID, nullString(rec.BucketName), rec.Status, rec.Progress,
		nullString(rec.URL), rec.Size, nullString(rec.Error),
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetRender(ctx context.Context, id string) (*RenderRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, bucket_name, status, progress, url, size, error, created_at, updated_at
		FROM renders WHERE id = ?
	`, id)
	return r.scanRender(row)
}

func (r *SQLiteRepository) LatestRenderForProject(ctx context.Context, projectID string) (*RenderRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, bucket_name, status, progress, url, size, error, created_at, updated_at
		FROM renders WHERE project_id = ? ORDER BY created_at DESC LIMIT 1
	`, projectID)
	return r.scanRender(row)
}

func (r *SQLiteRepository) scanRender(row *sql.Row) (*RenderRecord, error) {
	var rec RenderRecord
	var bucketName, url, errMsg sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&rec.ID, &rec.ProjectID, &bucketName, &rec.Status, &rec.Progress,
		&url, &rec.Size, &errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.BucketName = bucketName.String
	rec.URL = url.String
	rec.Error = errMsg.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

func (r *SQLiteRepository) UpdateRender(ctx context.Context, rec *RenderRecord) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE renders SET bucket_name = ?, status = ?, progress = ?, url = ?, size = ?, error = ?, updated_at = datetime('now')
		WHERE id = ?
	`, nullString(rec.BucketName), rec.Status, rec.Progress, nullString(rec.URL), rec.Size, nullString(rec.Error), rec.ID)
	return err
}

func (r *SQLiteRepository) CreateMedia(ctx context.Context, m *MediaFile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media (id, filename, path, size, duration_s, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.Filename, m.Path, m.Size, nullFloat(m.DurationS), m.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetMedia(ctx context.Context, id string) (*MediaFile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, path, size, duration_s, created_at
		FROM media WHERE id = ?
	`, id)

	var m MediaFile
	var duration sql.NullFloat64
	var createdAt string
	err := row.Scan(&m.ID, &m.Filename, &m.Path, &m.Size, &duration, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.DurationS = duration.Float64
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &m, nil
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func marshalOverlays(overlays timeline.Collection) (string, error) {
	if overlays == nil {
		overlays = timeline.Collection{}
	}
	encoded, err := json.Marshal(overlays)
	if err != nil {
		return "", fmt.Errorf("encode overlays: %w", err)
	}
	return string(encoded), nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
