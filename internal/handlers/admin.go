package handlers

import (
	"encoding/json"
	"net/http"

	"gallery-builder/internal/manifest"
	"gallery-builder/internal/metadata"
	"gallery-builder/internal/session"
)

// SessionState summarizes an edit session for the admin UI.
type SessionState struct {
	ID          string `json:"id"`
	TotalCount  int    `json:"totalCount"`
	EditedCount int    `json:"editedCount"`
	Done        bool   `json:"done"`
	Current     string `json:"current,omitempty"`
}

// RecordResponse is the current edit target with its override and
// position in manifest order.
type RecordResponse struct {
	Record   manifest.MediaRecord `json:"record"`
	Override metadata.Override    `json:"override"`
	State    SessionState         `json:"state"`
}

// sessionState builds a SessionState snapshot.
func sessionState(s *session.Session) SessionState {
	state := SessionState{
		ID:          s.ID(),
		TotalCount:  s.TotalCount(),
		EditedCount: s.EditedCount(),
		Done:        s.Done(),
	}
	if r, _, ok := s.Current(); ok {
		state.Current = r.Filename
	}
	return state
}

// currentSession returns the active session, or nil after writing a 409
// telling the client to start one.
func (h *Handlers) currentSession(w http.ResponseWriter) *session.Session {
	h.adminMu.Lock()
	s := h.admin
	h.adminMu.Unlock()
	if s == nil {
		writeJSONError(w, "no active edit session", http.StatusConflict)
	}
	return s
}

// StartSession begins a fresh edit session over the current manifest,
// seeded from the override document on disk. Any previous session is
// discarded.
func (h *Handlers) StartSession(w http.ResponseWriter, _ *http.Request) {
	if !h.library.Ready() {
		writeJSONError(w, "manifest not built yet", http.StatusServiceUnavailable)
		return
	}

	seed := metadata.Load(h.library.Builder().MetadataPath())
	s := session.New(h.library.Records(), seed)

	h.adminMu.Lock()
	h.admin = s
	h.adminMu.Unlock()

	writeJSON(w, sessionState(s))
}

// GetSession reports the active session's state.
func (h *Handlers) GetSession(w http.ResponseWriter, _ *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}
	writeJSON(w, sessionState(s))
}

// GetRecord serves the current edit target and its override.
func (h *Handlers) GetRecord(w http.ResponseWriter, _ *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}

	record, override, ok := s.Current()
	if !ok {
		writeJSONError(w, "edit session complete", http.StatusNotFound)
		return
	}
	writeJSON(w, RecordResponse{Record: record, Override: override, State: sessionState(s)})
}

// SaveRecord replaces the current target's override and auto-advances.
func (h *Handlers) SaveRecord(w http.ResponseWriter, r *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}

	var in session.SaveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, "invalid save payload", http.StatusBadRequest)
		return
	}

	advanced := s.Save(in)
	writeJSON(w, map[string]interface{}{
		"advanced": advanced,
		"state":    sessionState(s),
	})
}

// SelectRecord jumps the session to a specific filename.
func (h *Handlers) SelectRecord(w http.ResponseWriter, r *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}

	var in struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Filename == "" {
		writeJSONError(w, "invalid select payload", http.StatusBadRequest)
		return
	}
	if err := s.Select(in.Filename); err != nil {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, sessionState(s))
}

// NextRecord moves the edit target forward one record.
func (h *Handlers) NextRecord(w http.ResponseWriter, _ *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}
	s.Next()
	writeJSON(w, sessionState(s))
}

// PrevRecord moves the edit target back one record.
func (h *Handlers) PrevRecord(w http.ResponseWriter, _ *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}
	s.Prev()
	writeJSON(w, sessionState(s))
}

// GetDocument serves the clipboard payload: the override document the
// admin copies and pastes back into the metadata file. The server never
// writes that file itself.
func (h *Handlers) GetDocument(w http.ResponseWriter, _ *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}

	doc, err := s.Document()
	if err != nil {
		writeJSONError(w, "failed to render override document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}

// GetProducts serves the product name suggestions for the admin form.
func (h *Handlers) GetProducts(w http.ResponseWriter, _ *http.Request) {
	s := h.currentSession(w)
	if s == nil {
		return
	}
	writeJSON(w, map[string][]string{"products": s.Products()})
}
