package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/BearingSpec/internal/core"
	"github.com/JonMunkholm/BearingSpec/internal/logging"
	"github.com/JonMunkholm/BearingSpec/internal/web/templates"
)

// maxFormSize bounds the body of a form post.
const maxFormSize = 64 << 10

// handlePage renders the form for the current session.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrSessionNotFound, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	page := templates.Page(templates.PageParams{
		View:  sess.View(),
		Flash: sess.Flash(),
	})
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleSelect applies the submitted field values without adding a row.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.withForm(w, r, func(*core.Session) error { return nil })
}

// handleAddRow applies the submitted field values and appends them as a row.
func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	s.withForm(w, r, func(sess *core.Session) error {
		_, err := sess.AddRow()
		return err
	})
}

// handleClearRows empties the session's ledger.
func (s *Server) handleClearRows(w http.ResponseWriter, r *http.Request) {
	s.withForm(w, r, func(sess *core.Session) error {
		sess.ClearRows()
		return nil
	})
}

// handleResetQuota sets the session's consumed words back to zero.
func (s *Server) handleResetQuota(w http.ResponseWriter, r *http.Request) {
	s.withForm(w, r, func(sess *core.Session) error {
		sess.ResetQuota()
		return nil
	})
}

// handleExport builds the requested download. On failure the browser is
// sent back to the form, where the session status explains why.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sess, ok := s.applyForm(w, r)
	if !ok {
		return
	}

	res, err := sess.Export(r.Context(), format)
	if err != nil {
		s.actionFailed(w, r, sess, err)
		return
	}

	logging.FromContext(r.Context()).Info("download served",
		"filename", res.Filename,
		"rows", res.Rows,
		"words", res.Words,
		"pending", res.Pending.String(),
	)

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Quota-Consumed", strconv.Itoa(res.Consumed))
	w.Header().Set("X-Quota-Limit", strconv.Itoa(res.Limit))
	if _, err := w.Write(res.Data); err != nil {
		logging.FromContext(r.Context()).Warn("write download", "error", err)
	}
}

// withForm applies the submitted fields, runs action and redirects back
// to the form. JSON clients receive the session state instead.
func (s *Server) withForm(w http.ResponseWriter, r *http.Request, action func(*core.Session) error) {
	sess, ok := s.applyForm(w, r)
	if !ok {
		return
	}
	if err := action(sess); err != nil {
		s.actionFailed(w, r, sess, err)
		return
	}
	s.actionDone(w, r, sess)
}

// applyForm parses the posted fields into the session selection.
// Requests without form fields leave the selection unchanged.
func (s *Server) applyForm(w http.ResponseWriter, r *http.Request) (*core.Session, bool) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrSessionNotFound, http.StatusInternalServerError)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return nil, false
	}

	sel, present := selectionFromForm(r, sess.Selection())
	if !present {
		return sess, true
	}
	if _, err := sess.Select(sel); err != nil {
		s.actionFailed(w, r, sess, err)
		return nil, false
	}
	return sess, true
}

// selectionFromForm reads the form fields over the current selection.
// The bearing number comes from whichever control was edited last: a
// list choice that differs from the current value wins, otherwise a
// typed custom code does.
func selectionFromForm(r *http.Request, current core.Selection) (core.Selection, bool) {
	if _, ok := r.PostForm["category"]; !ok {
		return core.Selection{}, false
	}

	bearing := r.PostFormValue("bearing_number")
	custom := strings.TrimSpace(r.PostFormValue("bearing_number_custom"))
	if custom != "" && (bearing == "" || bearing == current.BearingNumber) {
		bearing = custom
	}

	return core.Selection{
		Category:      r.PostFormValue("category"),
		Type:          r.PostFormValue("type"),
		Subtype:       r.PostFormValue("subtype"),
		BearingNumber: bearing,
		Seal:          r.PostFormValue("seal"),
		Suffix:        r.PostFormValue("suffix"),
		Make:          r.PostFormValue("make"),
		Application:   r.PostFormValue("application"),
	}, true
}

// actionDone redirects the browser to the form (post/redirect/get).
func (s *Server) actionDone(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	if wantsJSON(r) {
		writeJSON(w, r, stateResponse{Session: sess.View(), Status: sess.Flash()})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// actionFailed reports a failed action. Browsers are redirected to the
// form, which shows the status the session recorded.
func (s *Server) actionFailed(w http.ResponseWriter, r *http.Request, sess *core.Session, err error) {
	status := statusFor(err)
	if wantsJSON(r) || status == http.StatusInternalServerError {
		sess.Flash()
		respondError(w, r, err, status)
		return
	}
	logging.FromContext(r.Context()).Info("action rejected", "path", r.URL.Path, "code", core.MapError(err).Code)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
