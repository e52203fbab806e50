package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/framewright/framewright-editor/internal/editor"
	"github.com/framewright/framewright-editor/internal/timeline"
)

func overlayID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "overlayID"), 10, 64)
	return id, err == nil
}

func addOverlayHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var req AddOverlayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		added, err := sess.AddOverlay(req.Overlay, req.AutoPlace)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, added)
	}
}

func changeOverlayHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		id, ok := overlayID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid overlay id", "BAD_REQUEST")
			return
		}

		var patch editor.OverlayPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if !sess.ChangeOverlay(id, patch) {
			WriteError(w, http.StatusNotFound, "overlay not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, sess.State())
	}
}

func deleteOverlayHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		id, ok := overlayID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid overlay id", "BAD_REQUEST")
			return
		}

		if !sess.DeleteOverlay(id) {
			WriteError(w, http.StatusNotFound, "overlay not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func duplicateOverlayHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		id, ok := overlayID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid overlay id", "BAD_REQUEST")
			return
		}

		dup, ok := sess.DuplicateOverlay(id)
		if !ok {
			WriteError(w, http.StatusNotFound, "overlay not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusCreated, dup)
	}
}

func splitOverlayHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		id, ok := overlayID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid overlay id", "BAD_REQUEST")
			return
		}

		var req SplitOverlayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		second, ok := sess.SplitOverlay(id, req.Frame)
		if !ok {
			WriteError(w, http.StatusBadRequest, "split frame outside overlay bounds", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, second)
	}
}

func updateStylesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		id, ok := overlayID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid overlay id", "BAD_REQUEST")
			return
		}

		var patch timeline.StylePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if !sess.UpdateOverlayStyles(id, patch) {
			WriteError(w, http.StatusNotFound, "overlay not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, sess.State())
	}
}

func resetOverlaysHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		sess.ResetOverlays()
		WriteJSON(w, http.StatusOK, sess.State())
	}
}

func undoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		sess.Undo()
		WriteJSON(w, http.StatusOK, sess.State())
	}
}

func redoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		sess.Redo()
		WriteJSON(w, http.StatusOK, sess.State())
	}
}

func addRowHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		rows, _ := sess.AddRow()
		WriteJSON(w, http.StatusOK, RowsResponse{VisibleRows: rows})
	}
}

func removeRowHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		rows, _ := sess.RemoveRow()
		WriteJSON(w, http.StatusOK, RowsResponse{VisibleRows: rows})
	}
}

func zoomHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var req ZoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		var scale float64
		switch {
		case req.Direction == "in":
			scale = sess.ZoomIn()
		case req.Direction == "out":
			scale = sess.ZoomOut()
		case req.Scale > 0:
			scale = sess.SetZoom(req.Scale)
		default:
			WriteError(w, http.StatusBadRequest, "scale or direction required", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, ZoomResponse{ZoomScale: scale})
	}
}

func dragBeginHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var req DragBeginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := sess.BeginDrag(req.OverlayID, editor.DragAction(req.Action), req.X, req.Y); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func dragMoveHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var req DragMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		ghost, ok := sess.MoveDrag(req.X, req.Y)
		if !ok {
			WriteError(w, http.StatusConflict, "no active drag", "NO_ACTIVE_DRAG")
			return
		}
		WriteJSON(w, http.StatusOK, ghost)
	}
}

func dragEndHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		committed, ok := sess.EndDrag()
		if !ok {
			WriteError(w, http.StatusConflict, "no active drag", "NO_ACTIVE_DRAG")
			return
		}
		WriteJSON(w, http.StatusOK, committed)
	}
}

func dragCancelHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, cfg, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		sess.CancelDrag()
		w.WriteHeader(http.StatusNoContent)
	}
}
