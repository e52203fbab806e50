package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/framewright/framewright-editor/internal/editor"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Get("/projects", listProjectsHandler(cfg))
		r.Post("/projects", createProjectHandler(cfg))
		r.Get("/projects/{id}", getProjectHandler(cfg))
		r.Delete("/projects/{id}", deleteProjectHandler(cfg))

		r.Post("/projects/{id}/session", openSessionHandler(cfg))
		r.Post("/projects/{id}/session/save", saveSessionHandler(cfg))
		r.Delete("/projects/{id}/session", closeSessionHandler(cfg))
		r.Get("/projects/{id}/timeline", timelineStateHandler(cfg))

		r.Post("/projects/{id}/overlays", addOverlayHandler(cfg))
		r.Delete("/projects/{id}/overlays", resetOverlaysHandler(cfg))
		r.Patch("/projects/{id}/overlays/{overlayID}", changeOverlayHandler(cfg))
		r.Delete("/projects/{id}/overlays/{overlayID}", deleteOverlayHandler(cfg))
		r.Post("/projects/{id}/overlays/{overlayID}/duplicate", duplicateOverlayHandler(cfg))
		r.Post("/projects/{id}/overlays/{overlayID}/split", splitOverlayHandler(cfg))
		r.Patch("/projects/{id}/overlays/{overlayID}/styles", updateStylesHandler(cfg))

		r.Post("/projects/{id}/undo", undoHandler(cfg))
		r.Post("/projects/{id}/redo", redoHandler(cfg))

		r.Post("/projects/{id}/rows", addRowHandler(cfg))
		r.Delete("/projects/{id}/rows", removeRowHandler(cfg))
		r.Put("/projects/{id}/zoom", zoomHandler(cfg))

		r.Post("/projects/{id}/drag/begin", dragBeginHandler(cfg))
		r.Post("/projects/{id}/drag/move", dragMoveHandler(cfg))
		r.Post("/projects/{id}/drag/end", dragEndHandler(cfg))
		r.Post("/projects/{id}/drag/cancel", dragCancelHandler(cfg))

		r.Post("/projects/{id}/import", importShotsHandler(cfg))
		r.Get("/projects/{id}/export/edl", exportEDLHandler(cfg))
		r.Get("/projects/{id}/export/srt", exportSRTHandler(cfg))

		r.Post("/projects/{id}/render", startRenderHandler(cfg))
		r.Get("/projects/{id}/render", renderStatusHandler(cfg))
		r.Delete("/projects/{id}/render", cancelRenderHandler(cfg))

		r.Post("/media", uploadMediaHandler(cfg))
		r.Get("/media/{id}", streamMediaHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, _ := cfg.Editor.ListProjects(r.Context())

		resp := StatusResponse{
			State:         "idle",
			SessionsOpen:  cfg.Editor.SessionCount(),
			ProjectsCount: len(projects),
		}
		if resp.SessionsOpen > 0 {
			resp.State = "editing"
		}

		for _, p := range projects {
			rec, err := cfg.Render.Status(r.Context(), p.ID)
			if err != nil || rec == nil {
				continue
			}
			if rec.Status == editor.RenderStatusInvoking || rec.Status == editor.RenderStatusRendering {
				resp.State = "rendering"
				resp.RenderState = rec.Status
				resp.RenderProgress = rec.Progress
				break
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := cfg.Editor.ListProjects(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}

		resp := ProjectsResponse{Projects: make([]ProjectResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = ProjectToResponse(p)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func createProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		project, err := cfg.Editor.CreateProject(r.Context(), req.Name, req.FPS, req.Width, req.Height)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, ProjectToResponse(project))
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := cfg.Editor.GetProject(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if project == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(project))
	}
}

func deleteProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Editor.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func openSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := cfg.Editor.OpenSession(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, sess.State())
	}
}

func saveSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Editor.SaveSession(r.Context(), chi.URLParam(r, "id")); err != nil {
			WriteError(w, http.StatusConflict, err.Error(), "SESSION_NOT_OPEN")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func closeSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Editor.CloseSession(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func timelineStateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		WriteJSON(w, http.StatusOK, sess.State())
	}
}

// requireSession resolves the open session for a project or writes the
// conflict response.
func requireSession(w http.ResponseWriter, cfg ServerConfig, projectID string) (*editor.Session, bool) {
	sess, ok := cfg.Editor.Session(projectID)
	if !ok {
		WriteError(w, http.StatusConflict, "no open session for project", "SESSION_NOT_OPEN")
		return nil, false
	}
	return sess, true
}
