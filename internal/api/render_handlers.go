package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/framewright/framewright-editor/internal/assets"
	"github.com/framewright/framewright-editor/internal/export"
)

func importShotsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Content == nil {
			WriteError(w, http.StatusNotImplemented, "content api not configured", "NOT_CONFIGURED")
			return
		}
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.CollectionID == "" {
			WriteError(w, http.StatusBadRequest, "collection_id is required", "BAD_REQUEST")
			return
		}

		shots, err := cfg.Content.FetchShots(r.Context(), req.CollectionID)
		if err != nil {
			WriteError(w, http.StatusBadGateway, err.Error(), "CONTENT_API_ERROR")
			return
		}

		generated := assets.GenerateOverlays(shots, sess.Project().FPS)
		added := sess.ImportOverlays(generated)
		WriteJSON(w, http.StatusCreated, ImportResponse{OverlaysAdded: added})
	}
}

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		project := sess.Project()

		edl := export.GenerateEDL(sess.Overlays(), project.Name, project.FPS)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.SanitizeName(project.Name, 60)+`.edl"`)
		w.Write([]byte(edl))
	}
}

func exportSRTHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		project := sess.Project()

		srt := export.GenerateSRT(sess.Overlays(), project.FPS)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.SanitizeName(project.Name, 60)+`.srt"`)
		w.Write([]byte(srt))
	}
}

func startRenderHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		rec, err := cfg.Render.Start(r.Context(), sess.Project(), sess.Overlays(), sess.TotalDuration())
		if err != nil {
			WriteError(w, http.StatusConflict, err.Error(), "RENDER_IN_FLIGHT")
			return
		}
		WriteJSON(w, http.StatusAccepted, RenderToResponse(rec))
	}
}

func renderStatusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := cfg.Render.Status(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if rec == nil {
			WriteError(w, http.StatusNotFound, "project has no renders", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, RenderToResponse(rec))
	}
}

func cancelRenderHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.Render.Cancel(chi.URLParam(r, "id")) {
			WriteError(w, http.StatusNotFound, "no render in flight", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func uploadMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "multipart field 'file' is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		m, err := cfg.Media.SaveUpload(r.Context(), header.Filename, file)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, MediaToResponse(m))
	}
}

func streamMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := cfg.Media.Lookup(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if m == nil {
			WriteError(w, http.StatusNotFound, "media not found", "NOT_FOUND")
			return
		}

		if err := cfg.Media.ServeFile(w, r, m.Path); err != nil {
			cfg.Logger.Error("media stream error", "error", err, "media_id", m.ID)
		}
	}
}
