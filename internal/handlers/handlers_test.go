package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"gallery-builder/internal/manifest"
	"gallery-builder/internal/metadata"
)

// setupHandlers builds a Handlers instance over a real library backed by
// a temp media directory. files are created empty; overrides, when not
// nil, are written as the metadata document before the build.
func setupHandlers(t *testing.T, files []string, overrides map[string]metadata.Override) *Handlers {
	t.Helper()

	dir := t.TempDir()
	mediaDir := filepath.Join(dir, "images")
	if err := os.Mkdir(mediaDir, 0o755); err != nil {
		t.Fatalf("failed to create media dir: %v", err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(mediaDir, f), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", f, err)
		}
	}

	metadataPath := filepath.Join(dir, "metadata.json")
	if overrides != nil {
		data, err := metadata.Encode(overrides)
		if err != nil {
			t.Fatalf("failed to encode overrides: %v", err)
		}
		if err := os.WriteFile(metadataPath, data, 0o644); err != nil {
			t.Fatalf("failed to write metadata: %v", err)
		}
	}

	builder := manifest.NewBuilder(mediaDir, metadataPath, filepath.Join(dir, "data.json"), "images")
	library := manifest.NewLibrary(builder)
	if _, err := library.Rebuild("startup"); err != nil {
		t.Fatalf("initial build failed: %v", err)
	}
	return New(library)
}

// emptyHandlers returns a Handlers whose library has never built.
func emptyHandlers(t *testing.T) *Handlers {
	t.Helper()
	dir := t.TempDir()
	builder := manifest.NewBuilder(filepath.Join(dir, "missing"), filepath.Join(dir, "metadata.json"), filepath.Join(dir, "data.json"), "images")
	return New(manifest.NewLibrary(builder))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestGetManifest(t *testing.T) {
	h := setupHandlers(t, []string{"a.png", "b.jpg"}, nil)

	rec := httptest.NewRecorder()
	h.GetManifest(rec, httptest.NewRequest(http.MethodGet, "/api/manifest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var m manifest.Manifest
	decodeBody(t, rec, &m)
	if m.TotalCount != 2 {
		t.Errorf("expected totalCount 2, got %d", m.TotalCount)
	}
	if len(m.Images) != 2 {
		t.Errorf("expected 2 images, got %d", len(m.Images))
	}
}

func TestGetManifestBeforeBuild(t *testing.T) {
	h := emptyHandlers(t)

	rec := httptest.NewRecorder()
	h.GetManifest(rec, httptest.NewRequest(http.MethodGet, "/api/manifest", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before first build, got %d", rec.Code)
	}
}

func TestGetImagesFiltering(t *testing.T) {
	h := setupHandlers(t, []string{"desk.png", "phone.png", "tablet.png"}, map[string]metadata.Override{
		"desk.png":   {Category: "workspace", FormFactors: []string{"desktop"}},
		"phone.png":  {Category: "mobile", FormFactors: []string{"phone"}},
		"tablet.png": {Category: "mobile", FormFactors: []string{"tablet"}},
	})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no filter returns all", "", 3},
		{"category all returns all", "category=all", 3},
		{"concrete category", "category=mobile", 2},
		{"unknown category", "category=nothing", 0},
		{"single attribute", "attrs=phone", 1},
		{"text search", "q=desk", 1},
		{"category and attribute", "category=mobile&attrs=tablet", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetImages(rec, httptest.NewRequest(http.MethodGet, "/api/images?"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var resp FilterResponse
			decodeBody(t, rec, &resp)
			if resp.TotalCount != tt.want {
				t.Errorf("expected %d matches, got %d", tt.want, resp.TotalCount)
			}
			if resp.Images == nil {
				t.Error("images must never be null")
			}
			if resp.Query.Attributes == nil {
				t.Error("echoed attributes must never be null")
			}
		})
	}
}

func TestGetImagesCommaSeparatedAttrs(t *testing.T) {
	h := setupHandlers(t, []string{"a.png", "b.png"}, map[string]metadata.Override{
		"a.png": {Category: "x", FormFactors: []string{"desktop"}, Features: []string{"dark-mode"}},
		"b.png": {Category: "x", FormFactors: []string{"desktop"}},
	})

	rec := httptest.NewRecorder()
	h.GetImages(rec, httptest.NewRequest(http.MethodGet, "/api/images?attrs=desktop,dark-mode", nil))

	var resp FilterResponse
	decodeBody(t, rec, &resp)
	if resp.TotalCount != 1 {
		t.Fatalf("expected 1 match for combined attrs, got %d", resp.TotalCount)
	}
	if resp.Images[0].Filename != "a.png" {
		t.Errorf("expected a.png, got %s", resp.Images[0].Filename)
	}
	if len(resp.Query.Attributes) != 2 {
		t.Errorf("expected 2 echoed attributes, got %d", len(resp.Query.Attributes))
	}
}

func TestGetAttributes(t *testing.T) {
	h := setupHandlers(t, []string{"a.png", "b.png"}, map[string]metadata.Override{
		"a.png": {Category: "x", FormFactors: []string{"desktop", "phone"}},
		"b.png": {Category: "x", Features: []string{"dark-mode"}},
	})

	rec := httptest.NewRecorder()
	h.GetAttributes(rec, httptest.NewRequest(http.MethodGet, "/api/attributes", nil))

	var catalog struct {
		FormFactors []string `json:"formFactors"`
		Features    []string `json:"features"`
	}
	decodeBody(t, rec, &catalog)
	if len(catalog.FormFactors) != 2 {
		t.Errorf("expected 2 form factors, got %v", catalog.FormFactors)
	}
	if len(catalog.Features) != 1 {
		t.Errorf("expected 1 feature, got %v", catalog.Features)
	}
}

func TestTriggerRebuild(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)

	// Add a file after the initial build; the rebuild should pick it up.
	mediaDir := h.library.Builder().MediaDir()
	if err := os.WriteFile(filepath.Join(mediaDir, "b.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}

	rec := httptest.NewRecorder()
	h.TriggerRebuild(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	decodeBody(t, rec, &resp)
	if resp["totalCount"].(float64) != 2 {
		t.Errorf("expected totalCount 2 after rebuild, got %v", resp["totalCount"])
	}
}

func TestTriggerRebuildFailureKeepsServing(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)

	if err := os.RemoveAll(h.library.Builder().MediaDir()); err != nil {
		t.Fatalf("failed to remove media dir: %v", err)
	}

	rec := httptest.NewRecorder()
	h.TriggerRebuild(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on failed rebuild, got %d", rec.Code)
	}

	// The previous manifest must still be served.
	rec = httptest.NewRecorder()
	h.GetManifest(rec, httptest.NewRequest(http.MethodGet, "/api/manifest", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected previous manifest to survive failed rebuild, got %d", rec.Code)
	}
}

func startSession(t *testing.T, h *Handlers) SessionState {
	t.Helper()
	rec := httptest.NewRecorder()
	h.StartSession(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("failed to start session: %d %s", rec.Code, rec.Body.String())
	}
	var state SessionState
	decodeBody(t, rec, &state)
	return state
}

func TestStartSession(t *testing.T) {
	h := setupHandlers(t, []string{"a.png", "b.png"}, map[string]metadata.Override{
		"a.png": {Category: "x", Product: "Widget"},
	})

	state := startSession(t, h)
	if state.ID == "" {
		t.Error("expected a session id")
	}
	if state.TotalCount != 2 {
		t.Errorf("expected totalCount 2, got %d", state.TotalCount)
	}
	if state.EditedCount != 1 {
		t.Errorf("expected editedCount 1 from seeded override, got %d", state.EditedCount)
	}
	if state.Done {
		t.Error("fresh session must not be done")
	}
	if state.Current == "" {
		t.Error("fresh session must have a current target")
	}
}

func TestStartSessionBeforeBuild(t *testing.T) {
	h := emptyHandlers(t)

	rec := httptest.NewRecorder()
	h.StartSession(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before first build, got %d", rec.Code)
	}
}

func TestSessionEndpointsWithoutSession(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)

	endpoints := []struct {
		name string
		call func(w http.ResponseWriter, r *http.Request)
	}{
		{"state", h.GetSession},
		{"record", h.GetRecord},
		{"next", h.NextRecord},
		{"prev", h.PrevRecord},
		{"document", h.GetDocument},
		{"products", h.GetProducts},
	}
	for _, e := range endpoints {
		t.Run(e.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.call(rec, httptest.NewRequest(http.MethodGet, "/api/admin/session", nil))
			if rec.Code != http.StatusConflict {
				t.Errorf("expected 409 without a session, got %d", rec.Code)
			}
		})
	}
}

func TestSaveRecordAdvances(t *testing.T) {
	h := setupHandlers(t, []string{"first.png", "second.png"}, nil)
	startSession(t, h)

	body, _ := json.Marshal(map[string]interface{}{
		"category":    "workspace",
		"product":     "Widget",
		"formFactors": []string{"desktop"},
	})
	rec := httptest.NewRecorder()
	h.SaveRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/record", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Advanced bool         `json:"advanced"`
		State    SessionState `json:"state"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Advanced {
		t.Error("expected save to advance past the first record")
	}
	if resp.State.EditedCount != 1 {
		t.Errorf("expected editedCount 1, got %d", resp.State.EditedCount)
	}
	if resp.State.Done {
		t.Error("session must not be done with a record remaining")
	}
}

func TestSaveLastRecordCompletesSession(t *testing.T) {
	h := setupHandlers(t, []string{"only.png"}, nil)
	startSession(t, h)

	body, _ := json.Marshal(map[string]string{"category": "workspace"})
	rec := httptest.NewRecorder()
	h.SaveRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/record", bytes.NewReader(body)))

	var resp struct {
		Advanced bool         `json:"advanced"`
		State    SessionState `json:"state"`
	}
	decodeBody(t, rec, &resp)
	if resp.Advanced {
		t.Error("saving the last record must not advance")
	}
	if !resp.State.Done {
		t.Error("session must be done after the last save")
	}

	// The record endpoint now reports completion.
	rec = httptest.NewRecorder()
	h.GetRecord(rec, httptest.NewRequest(http.MethodGet, "/api/admin/session/record", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after completion, got %d", rec.Code)
	}
}

func TestSaveRecordInvalidPayload(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)
	startSession(t, h)

	rec := httptest.NewRecorder()
	h.SaveRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/record", bytes.NewReader([]byte("{not json"))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed payload, got %d", rec.Code)
	}
}

func TestSelectRecord(t *testing.T) {
	h := setupHandlers(t, []string{"a.png", "b.png", "c.png"}, nil)
	startSession(t, h)

	body, _ := json.Marshal(map[string]string{"filename": "a.png"})
	rec := httptest.NewRecorder()
	h.SelectRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/select", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var state SessionState
	decodeBody(t, rec, &state)
	if state.Current != "a.png" {
		t.Errorf("expected current a.png, got %s", state.Current)
	}

	// Unknown filename
	body, _ = json.Marshal(map[string]string{"filename": "missing.png"})
	rec = httptest.NewRecorder()
	h.SelectRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/select", bytes.NewReader(body)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown filename, got %d", rec.Code)
	}

	// Empty filename
	rec = httptest.NewRecorder()
	h.SelectRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/select", bytes.NewReader([]byte("{}"))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty filename, got %d", rec.Code)
	}
}

func TestNextPrevNavigation(t *testing.T) {
	h := setupHandlers(t, []string{"a.png", "b.png"}, nil)
	start := startSession(t, h)

	rec := httptest.NewRecorder()
	h.NextRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/next", nil))
	var state SessionState
	decodeBody(t, rec, &state)
	if state.Current == start.Current {
		t.Error("next must move to a different record")
	}

	rec = httptest.NewRecorder()
	h.PrevRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/prev", nil))
	decodeBody(t, rec, &state)
	if state.Current != start.Current {
		t.Errorf("prev must return to %s, got %s", start.Current, state.Current)
	}
}

func TestGetRecord(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, map[string]metadata.Override{
		"a.png": {Category: "workspace", Product: "Widget"},
	})
	startSession(t, h)

	rec := httptest.NewRecorder()
	h.GetRecord(rec, httptest.NewRequest(http.MethodGet, "/api/admin/session/record", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp RecordResponse
	decodeBody(t, rec, &resp)
	if resp.Record.Filename != "a.png" {
		t.Errorf("expected record a.png, got %s", resp.Record.Filename)
	}
	if resp.Override.Product != "Widget" {
		t.Errorf("expected seeded override product, got %q", resp.Override.Product)
	}
}

func TestGetDocument(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)
	startSession(t, h)

	body, _ := json.Marshal(map[string]interface{}{
		"category": "workspace",
		"product":  "Widget",
	})
	rec := httptest.NewRecorder()
	h.SaveRecord(rec, httptest.NewRequest(http.MethodPost, "/api/admin/session/record", bytes.NewReader(body)))

	rec = httptest.NewRecorder()
	h.GetDocument(rec, httptest.NewRequest(http.MethodGet, "/api/admin/session/document", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var doc map[string]metadata.Override
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("document must be valid JSON: %v", err)
	}
	if doc["a.png"].Product != "Widget" {
		t.Errorf("expected saved product in document, got %q", doc["a.png"].Product)
	}
	// Human-readable indentation for the paste-back workflow.
	if !bytes.Contains(rec.Body.Bytes(), []byte("\n  ")) {
		t.Error("document must be indented")
	}
}

func TestGetProducts(t *testing.T) {
	h := setupHandlers(t, []string{"a.png", "b.png"}, map[string]metadata.Override{
		"a.png": {Category: "x", Product: "Widget"},
		"b.png": {Category: "y", Product: "Gadget"},
	})
	startSession(t, h)

	rec := httptest.NewRecorder()
	h.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/api/admin/session/products", nil))
	var resp map[string][]string
	decodeBody(t, rec, &resp)
	want := []string{"Gadget", "Widget"}
	got := resp["products"]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected sorted products %v, got %v", want, got)
	}
}

func TestStartSessionDiscardsPrevious(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)

	first := startSession(t, h)
	second := startSession(t, h)
	if first.ID == second.ID {
		t.Error("restarting must create a fresh session")
	}
}

func TestHealthCheck(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp HealthResponse
	decodeBody(t, rec, &resp)
	if resp.Status != statusHealthy {
		t.Errorf("expected %s, got %s", statusHealthy, resp.Status)
	}
	if !resp.Ready {
		t.Error("expected ready after build")
	}
	if resp.TotalImages != 1 {
		t.Errorf("expected 1 image, got %d", resp.TotalImages)
	}
	if resp.GoVersion == "" {
		t.Error("expected go version")
	}
}

func TestHealthCheckBeforeBuild(t *testing.T) {
	h := emptyHandlers(t)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before build, got %d", rec.Code)
	}
	var resp HealthResponse
	decodeBody(t, rec, &resp)
	if resp.Status != statusStarting {
		t.Errorf("expected %s, got %s", statusStarting, resp.Status)
	}
}

func TestHealthCheckDegraded(t *testing.T) {
	h := setupHandlers(t, []string{"a.png"}, nil)

	if err := os.RemoveAll(h.library.Builder().MediaDir()); err != nil {
		t.Fatalf("failed to remove media dir: %v", err)
	}
	rec := httptest.NewRecorder()
	h.TriggerRebuild(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))

	rec = httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	// Still serving the previous manifest, so 200 but degraded.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 while still serving, got %d", rec.Code)
	}
	var resp HealthResponse
	decodeBody(t, rec, &resp)
	if resp.Status != statusDegraded {
		t.Errorf("expected %s, got %s", statusDegraded, resp.Status)
	}
	if resp.LastBuildError == "" {
		t.Error("expected last build error to be reported")
	}
}

func TestLivenessCheck(t *testing.T) {
	h := emptyHandlers(t)

	rec := httptest.NewRecorder()
	h.LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("liveness must always be 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.LivenessCheck(rec, httptest.NewRequest(http.MethodHead, "/api/health/live", nil))
	if rec.Body.Len() != 0 {
		t.Error("HEAD response must have no body")
	}
}

func TestReadinessCheck(t *testing.T) {
	h := emptyHandlers(t)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before build, got %d", rec.Code)
	}

	h = setupHandlers(t, []string{"a.png"}, nil)
	rec = httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 after build, got %d", rec.Code)
	}
}

func TestServeMedia(t *testing.T) {
	h := setupHandlers(t, []string{"shot.png", "clip.mp4", ".hidden.jpg"}, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantType   string
	}{
		{"png file", "/shot.png", http.StatusOK, "image/png"},
		{"mp4 file", "/clip.mp4", http.StatusOK, "video/mp4"},
		{"dot-prefixed file", "/.hidden.jpg", http.StatusOK, "image/jpeg"},
		{"missing file", "/gone.png", http.StatusNotFound, ""},
		{"extension not allow-listed", "/notes.txt", http.StatusNotFound, ""},
		{"nested path rejected", "/sub/shot.png", http.StatusNotFound, ""},
		{"empty name", "/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeMedia(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantType != "" {
				if ct := rec.Header().Get("Content-Type"); ct != tt.wantType {
					t.Errorf("expected Content-Type %q, got %q", tt.wantType, ct)
				}
				if rec.Body.Len() == 0 {
					t.Error("expected file contents in response body")
				}
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	h := emptyHandlers(t)

	rec := httptest.NewRecorder()
	h.GetVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var info map[string]interface{}
	decodeBody(t, rec, &info)
	if _, ok := info["version"]; !ok {
		t.Error("expected version field")
	}
}
