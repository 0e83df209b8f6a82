package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/BearingSpec/internal/core"
)

func testTaxonomy() *core.Taxonomy {
	return core.NewTaxonomy([]core.CategoryDefinition{
		{Name: "Bearing", Types: []core.TypeDefinition{
			{Name: "Deep Groove Ball Bearing", Subtypes: []string{"6000 Series", "6200 Series"}},
		}},
		{Name: "Bearing Accessory", Types: []core.TypeDefinition{
			{Name: "Lubricant", Subtypes: []string{"Grease A"}},
		}},
	}, map[string]core.Attributes{
		"6200 Series": {
			BearingNumbers: []string{"6200", "6201", "6205"},
			Seals:          []string{"ZZ", "2RS"},
			Suffixes:       []string{"C3"},
			Makes:          []string{"SKF"},
		},
	})
}

func newTestServer(t *testing.T, opts Options, maxSessions int) *Server {
	t.Helper()
	store := core.NewSessionStore(testTaxonomy(), core.StoreOptions{
		Session:     core.SessionOptions{WordLimit: 40},
		MaxSessions: maxSessions,
	})
	s := NewServer(store, opts)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

// client replays the session cookie across requests.
type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.srv.Router().ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "bearingspec_session" {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return c.do(req)
}

func bearingForm(application string) url.Values {
	return url.Values{
		"category":       {"Bearing"},
		"type":           {"Deep Groove Ball Bearing"},
		"subtype":        {"6200 Series"},
		"bearing_number": {"6205"},
		"seal":           {"ZZ"},
		"application":    {application},
	}
}

func TestPage_StartsSession(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}

	rec := c.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", rec.Code)
	}
	if c.cookie == nil || !c.cookie.HttpOnly {
		t.Fatalf("session cookie = %+v", c.cookie)
	}
	body := rec.Body.String()
	for _, want := range []string{"BearingSpec Hub", "<strong>0/40</strong>", "No rows added yet", `value="6200 Series" selected`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	// Second request reuses the session.
	first := c.cookie.Value
	c.get("/")
	if c.cookie.Value != first {
		t.Error("session cookie changed between requests")
	}
}

func TestAddRowAndExport(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	c.get("/")

	rec := c.post("/rows", bearingForm("front hub"), "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("POST /rows = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	page := c.get("/").Body.String()
	if !strings.Contains(page, "Row added (not yet downloaded).") || !strings.Contains(page, "<td>front hub</td>") {
		t.Error("page does not show the added row and status")
	}

	// The form after adding has no bearing number, so only the ledger row is exported.
	form := bearingForm("")
	form.Set("bearing_number", "")
	rec = c.post("/export/csv", form, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /export/csv status = %d body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="BearingSpec_`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Header().Get("X-Quota-Consumed") != "10" {
		t.Errorf("X-Quota-Consumed = %q, want 10", rec.Header().Get("X-Quota-Consumed"))
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Category,Type,Subtype,BearingNumber") {
		t.Errorf("csv = %q", rec.Body.String())
	}

	page = c.get("/").Body.String()
	if !strings.Contains(page, "Downloaded 1 row(s). 10 words used.") || !strings.Contains(page, "<strong>10/40</strong>") {
		t.Error("page does not show the export status")
	}
}

func TestExport_QuotaExceededRedirects(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	c.get("/")

	big := bearingForm(strings.TrimSpace(strings.Repeat("word ", 40)))
	rec := c.post("/export/xlsx", big, "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", rec.Code)
	}

	page := c.get("/").Body.String()
	if !strings.Contains(page, "Download needs 48 words but only 40 of 40 remain.") {
		t.Error("page does not explain the rejected download")
	}
	if !strings.Contains(page, "<strong>0/40</strong>") {
		t.Error("rejected download consumed quota")
	}
}

func TestExport_JSONErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		form     url.Values
		wantCode int
		wantErr  string
	}{
		{"nothing to export", "/export/csv", url.Values{"category": {"Bearing"}}, http.StatusUnprocessableEntity, "EXP001"},
		{"unsupported format", "/export/pdf", url.Values{}, http.StatusBadRequest, "EXP002"},
		{"unknown selection", "/export/csv", url.Values{"category": {"Gearbox"}}, http.StatusBadRequest, "VAL002"},
		{"quota exceeded", "/export/csv", bearingForm(strings.Repeat("w ", 40)), http.StatusConflict, "QUO001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
			rec := c.post(tt.path, tt.form, "application/json")

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantErr)
			}
		})
	}
}

func TestAddRow_MissingFieldJSON(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}

	form := bearingForm("")
	form.Set("bearing_number", " ")
	rec := c.post("/rows", form, "application/json")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "VAL001") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCustomBearingNumber(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}

	form := bearingForm("")
	form.Set("bearing_number", "")
	form.Set("bearing_number_custom", "6205-XL")
	rec := c.post("/rows", form, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var state stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Session.Rows) != 1 || state.Session.Rows[0].BearingNumber != "6205-XL" {
		t.Errorf("rows = %+v", state.Session.Rows)
	}
	if state.Status.Kind != core.StatusAdded {
		t.Errorf("status = %+v", state.Status)
	}
}

func TestBearingNumber_LastEditWins(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}

	// A typed code is applied while a subtype change re-renders the form.
	form := bearingForm("")
	form.Set("bearing_number", "")
	form.Set("bearing_number_custom", "9999-X")
	c.post("/select", form, "")

	// The operator then picks a code from the list; the stale custom value is ignored.
	form.Set("bearing_number", "6205")
	rec := c.post("/rows", form, "application/json")
	var state stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Session.Rows) != 1 || state.Session.Rows[0].BearingNumber != "6205" {
		t.Fatalf("rows = %+v, want list choice 6205", state.Session.Rows)
	}

	// With the list left on the current value, typing a code replaces it.
	form = bearingForm("")
	form.Set("bearing_number", "6205")
	c.post("/select", form, "")
	form.Set("bearing_number_custom", "6205-HT")
	rec = c.post("/rows", form, "application/json")
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Session.Rows) != 2 || state.Session.Rows[1].BearingNumber != "6205-HT" {
		t.Errorf("rows = %+v, want custom code 6205-HT", state.Session.Rows)
	}
}

func TestExport_DefaultFormOnFirstLoad(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	page := c.get("/").Body.String()
	if !strings.Contains(page, `<option value="6200" selected>6200</option>`) {
		t.Error("first page does not preselect bearing number 6200")
	}

	rec := c.post("/export/csv", url.Values{}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /export/csv status = %d, want the preset row downloaded", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Bearing,Deep Groove Ball Bearing,6200 Series,6200,OPEN,C3,SKF,") {
		t.Errorf("csv = %q", rec.Body.String())
	}
	if rec.Header().Get("X-Quota-Consumed") != "8" {
		t.Errorf("X-Quota-Consumed = %q, want 8", rec.Header().Get("X-Quota-Consumed"))
	}
}

func TestExport_BadFormatLeavesSelection(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	c.get("/")

	rec := c.post("/export/pdf", bearingForm("gearbox"), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var state stateResponse
	if err := json.Unmarshal(c.get("/api/session").Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	sel := state.Session.Selection
	if sel.Application != "" || sel.BearingNumber != "6200" || sel.Seal != "OPEN" {
		t.Errorf("selection after rejected export = %+v", sel)
	}
}

func TestClearAndReset(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	c.post("/rows", bearingForm(""), "")
	c.post("/export/csv", url.Values{}, "")

	rec := c.post("/rows/clear", url.Values{}, "application/json")
	var state stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Session.Rows) != 0 || state.Session.Consumed != 8 {
		t.Errorf("after clear rows %d consumed %d", len(state.Session.Rows), state.Session.Consumed)
	}

	rec = c.post("/quota/reset", url.Values{}, "application/json")
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Session.Consumed != 0 || state.Status.Message != "Quota reset to 40/40." {
		t.Errorf("after reset consumed %d status %+v", state.Session.Consumed, state.Status)
	}
}

func TestTaxonomyAPI(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}

	tests := []struct {
		path string
		want string
	}{
		{"/api/taxonomy/categories", `["Bearing","Bearing Accessory"]`},
		{"/api/taxonomy/types?category=Bearing", `["Deep Groove Ball Bearing"]`},
		{"/api/taxonomy/subtypes?category=Bearing&type=Deep+Groove+Ball+Bearing", `["6000 Series","6200 Series"]`},
		{"/api/taxonomy/types?category=Gearbox", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := c.get(tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.want {
				t.Errorf("body = %s, want %s", got, tt.want)
			}
		})
	}

	rec := c.get("/api/taxonomy/attributes?subtype=6200+Series")
	var attrs core.Attributes
	if err := json.Unmarshal(rec.Body.Bytes(), &attrs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(attrs.BearingNumbers) != 3 || attrs.Makes[0] != "SKF" {
		t.Errorf("attributes = %+v", attrs)
	}
}

func TestSessionStateAPI(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	c.post("/rows", bearingForm(""), "")

	rec := c.get("/api/session")
	var state stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Session.Rows) != 1 || state.Session.Limit != 40 {
		t.Errorf("session = %+v", state.Session)
	}

	// Reading the state leaves the status for the page.
	if !strings.Contains(c.get("/").Body.String(), "Row added") {
		t.Error("status consumed by /api/session")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t, Options{}, 0)
	a := &client{t: t, srv: srv}
	b := &client{t: t, srv: srv}

	a.post("/rows", bearingForm("a"), "")
	page := b.get("/").Body.String()
	if !strings.Contains(page, "No rows added yet") {
		t.Error("second session sees rows of the first")
	}
}

func TestSessionCap(t *testing.T) {
	srv := newTestServer(t, Options{}, 1)
	(&client{t: t, srv: srv}).get("/")

	c := &client{t: t, srv: srv}
	rec := c.get("/")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SES002") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	rec := c.get("/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body.String())
	}
	if c.cookie != nil {
		t.Error("health check created a session")
	}
}

func TestSecurityHeaders(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{}, 0)}
	rec := c.get("/")
	if rec.Header().Get("X-Frame-Options") != "DENY" || rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, Options{RateLimitEnabled: true, RequestsPerMinute: 100, ExportPerMinute: 1}, 0)}

	c.post("/rows", bearingForm(""), "")
	if rec := c.post("/export/csv", url.Values{}, ""); rec.Code != http.StatusOK {
		t.Fatalf("first export status = %d", rec.Code)
	}
	rec := c.post("/export/csv", url.Values{}, "application/json")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second export status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || !strings.Contains(rec.Body.String(), "RATE001") {
		t.Errorf("rate limited response = %v %s", rec.Header(), rec.Body.String())
	}
}

func TestRateLimiter_Window(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute, func() time.Time { return now })

	if !rl.allow("1.2.3.4") || !rl.allow("1.2.3.4") {
		t.Fatal("first two requests rejected")
	}
	if rl.allow("1.2.3.4") {
		t.Error("third request in window allowed")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("other client limited")
	}

	now = now.Add(61 * time.Second)
	if !rl.allow("1.2.3.4") {
		t.Error("request after window rejected")
	}

	now = now.Add(3 * time.Minute)
	rl.prune()
	if len(rl.visitors) != 0 {
		t.Errorf("visitors after prune = %d", len(rl.visitors))
	}
}
