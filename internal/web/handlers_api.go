package web

import (
	"net/http"

	"github.com/JonMunkholm/BearingSpec/internal/core"
)

// stateResponse is the JSON shape of a session and its last status.
type stateResponse struct {
	Session core.SessionView `json:"session"`
	Status  core.Status      `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.store.Taxonomy().Categories())
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.store.Taxonomy().TypesFor(r.URL.Query().Get("category")))
}

func (s *Server) handleSubtypes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, r, s.store.Taxonomy().SubtypesFor(q.Get("category"), q.Get("type")))
}

func (s *Server) handleAttributes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.store.Taxonomy().AttributesFor(r.URL.Query().Get("subtype")))
}

// handleSessionState returns the session without consuming its status.
func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrSessionNotFound, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, stateResponse{Session: sess.View()})
}
