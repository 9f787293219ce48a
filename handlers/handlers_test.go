package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pipedeck/pipedeck/dashboard"
	"github.com/pipedeck/pipedeck/database"
	"github.com/pipedeck/pipedeck/services"
)

// setupTestAPI wires the full protected API against a throwaway database
// and returns the router plus a valid session token.
func setupTestAPI(t *testing.T) (*mux.Router, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "handler-test-secret")

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dataService := database.NewDataService(db)
	authService := services.NewAuthService()
	seeder := services.NewStageSeeder(dataService)

	hub := services.NewHub()
	go hub.Run()

	user, err := dataService.FindOrCreateUser("owner@example.com")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	token, err := authService.CreateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("Failed to create session token: %v", err)
	}

	accountsHandler := NewAccountsHandler(dataService, hub)
	stagesHandler := NewStagesHandler(dataService, seeder, hub)
	tasksHandler := NewTasksHandler(dataService, hub)
	dashboardHandler := NewDashboardHandler(dataService)
	authMiddleware := NewAuthMiddleware(authService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Auth)
	api.HandleFunc("/accounts", accountsHandler.List).Methods("GET")
	api.HandleFunc("/accounts", accountsHandler.Create).Methods("POST")
	api.HandleFunc("/accounts/{id}", accountsHandler.Get).Methods("GET")
	api.HandleFunc("/accounts/{id}", accountsHandler.Update).Methods("PATCH")
	api.HandleFunc("/stages", stagesHandler.List).Methods("GET")
	api.HandleFunc("/tasks", tasksHandler.List).Methods("GET")
	api.HandleFunc("/tasks", tasksHandler.Create).Methods("POST")
	api.HandleFunc("/tasks/board", tasksHandler.Board).Methods("GET")
	api.HandleFunc("/tasks/{id}", tasksHandler.Update).Methods("PATCH")
	api.HandleFunc("/dashboard", dashboardHandler.Get).Methods("GET")

	return r, token
}

func doRequest(t *testing.T, r *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the {"status","data"} envelope into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response envelope: %v (%s)", err, rec.Body.String())
	}
	if envelope.Status != "success" {
		t.Fatalf("response status = %q, want success", envelope.Status)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("Failed to decode response data: %v", err)
	}
}

func TestDataRoutesRequireAuth(t *testing.T) {
	r, _ := setupTestAPI(t)

	for _, path := range []string{"/api/accounts", "/api/stages", "/api/tasks", "/api/dashboard"} {
		rec := doRequest(t, r, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, rec.Code)
		}
	}
}

func TestDataRoutesRejectBadToken(t *testing.T) {
	r, _ := setupTestAPI(t)

	rec := doRequest(t, r, http.MethodGet, "/api/accounts", "bogus", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", rec.Code)
	}
}

func TestAccountLifecycle(t *testing.T) {
	r, token := setupTestAPI(t)

	rec := doRequest(t, r, http.MethodPost, "/api/accounts", token, map[string]any{
		"companyName": "Acme",
		"healthScore": 72,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create account = %d: %s", rec.Code, rec.Body.String())
	}
	var created database.Account
	decodeData(t, rec, &created)
	if created.CompanyName != "Acme" {
		t.Errorf("company name = %q, want Acme", created.CompanyName)
	}

	rec = doRequest(t, r, http.MethodGet, "/api/accounts", token, nil)
	var accounts []database.Account
	decodeData(t, rec, &accounts)
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}

	rec = doRequest(t, r, http.MethodPatch, "/api/accounts/"+created.ID, token, map[string]any{
		"healthScore": 30,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update account = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, r, http.MethodGet, "/api/accounts/"+created.ID, token, nil)
	var detail struct {
		Account    database.Account     `json:"account"`
		HealthTier dashboard.HealthTier `json:"healthTier"`
	}
	decodeData(t, rec, &detail)
	if detail.Account.HealthScore == nil || *detail.Account.HealthScore != 30 {
		t.Errorf("health score = %v, want 30", detail.Account.HealthScore)
	}
	if detail.HealthTier != dashboard.TierCritical {
		t.Errorf("health tier = %q, want critical", detail.HealthTier)
	}
}

func TestCreateAccountRejectsBlankName(t *testing.T) {
	r, token := setupTestAPI(t)

	rec := doRequest(t, r, http.MethodPost, "/api/accounts", token, map[string]any{
		"companyName": "  ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank company name = %d, want 400", rec.Code)
	}
}

func TestStagesListSeedsFirstTimeUser(t *testing.T) {
	r, token := setupTestAPI(t)

	rec := doRequest(t, r, http.MethodGet, "/api/stages", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list stages = %d: %s", rec.Code, rec.Body.String())
	}

	var stages []database.PipelineStage
	decodeData(t, rec, &stages)
	if len(stages) != 5 {
		t.Fatalf("got %d stages on first load, want the 5 defaults", len(stages))
	}
	if stages[0].Name != "Qualify" || stages[4].Name != "Close" {
		t.Errorf("unexpected default pipeline: %q ... %q", stages[0].Name, stages[4].Name)
	}

	// A second load returns the same set, not another five.
	rec = doRequest(t, r, http.MethodGet, "/api/stages", token, nil)
	decodeData(t, rec, &stages)
	if len(stages) != 5 {
		t.Errorf("got %d stages on second load, want 5", len(stages))
	}
}

func TestTaskBoardPartition(t *testing.T) {
	r, token := setupTestAPI(t)

	for _, task := range []map[string]any{
		{"title": "A", "status": "todo"},
		{"title": "B", "status": "in_progress"},
		{"title": "C", "status": "done"},
		{"title": "D"},
	} {
		rec := doRequest(t, r, http.MethodPost, "/api/tasks", token, task)
		if rec.Code != http.StatusOK {
			t.Fatalf("create task = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := doRequest(t, r, http.MethodGet, "/api/tasks/board", token, nil)
	var board struct {
		Columns []dashboard.BoardColumn `json:"columns"`
		Overdue []database.Task         `json:"overdue"`
	}
	decodeData(t, rec, &board)

	if len(board.Columns) != 4 {
		t.Fatalf("got %d columns, want 4", len(board.Columns))
	}
	total := 0
	for _, col := range board.Columns {
		total += len(col.Tasks)
	}
	if total != 4 {
		t.Errorf("column sizes sum to %d, want 4", total)
	}
	if len(board.Overdue) != 0 {
		t.Errorf("got %d overdue tasks, want 0", len(board.Overdue))
	}
}

func TestDashboardAggregates(t *testing.T) {
	r, token := setupTestAPI(t)

	// Health bucket fixture: null, 72, 30.
	ids := []string{}
	for _, account := range []map[string]any{
		{"companyName": "Neutral"},
		{"companyName": "Strong", "healthScore": 72},
		{"companyName": "Shaky", "healthScore": 30},
	} {
		rec := doRequest(t, r, http.MethodPost, "/api/accounts", token, account)
		if rec.Code != http.StatusOK {
			t.Fatalf("create account = %d: %s", rec.Code, rec.Body.String())
		}
		var created database.Account
		decodeData(t, rec, &created)
		ids = append(ids, created.ID)
	}

	// Make one account stale.
	staleTouch := time.Now().UTC().Add(-30 * 24 * time.Hour)
	rec := doRequest(t, r, http.MethodPatch, "/api/accounts/"+ids[2], token, map[string]any{
		"lastTouchedAt": staleTouch.Format(time.RFC3339),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("touch account = %d: %s", rec.Code, rec.Body.String())
	}

	// One overdue task, one completed task.
	for _, task := range []map[string]any{
		{"title": "Late", "dueDate": "2000-01-01", "status": "todo"},
		{"title": "Shipped", "status": "done"},
	} {
		rec := doRequest(t, r, http.MethodPost, "/api/tasks", token, task)
		if rec.Code != http.StatusOK {
			t.Fatalf("create task = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = doRequest(t, r, http.MethodGet, "/api/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d: %s", rec.Code, rec.Body.String())
	}

	var view struct {
		Stats         dashboard.Stats          `json:"stats"`
		HealthBuckets dashboard.HealthBuckets  `json:"healthBuckets"`
		StaleAccounts []dashboard.StaleAccount `json:"staleAccounts"`
		OverdueTasks  []database.Task          `json:"overdueTasks"`
	}
	decodeData(t, rec, &view)

	wantStats := dashboard.Stats{TotalAccounts: 3, StaleAccounts: 1, ActiveTasks: 1, CompletedTasks: 1}
	if view.Stats != wantStats {
		t.Errorf("stats = %+v, want %+v", view.Stats, wantStats)
	}
	wantBuckets := dashboard.HealthBuckets{Healthy: 1, Weak: 1, Critical: 1}
	if view.HealthBuckets != wantBuckets {
		t.Errorf("health buckets = %+v, want %+v", view.HealthBuckets, wantBuckets)
	}
	if len(view.StaleAccounts) != 1 || view.StaleAccounts[0].Account.CompanyName != "Shaky" {
		t.Errorf("stale accounts = %+v, want just Shaky", view.StaleAccounts)
	}
	if len(view.OverdueTasks) != 1 || view.OverdueTasks[0].Title != "Late" {
		t.Errorf("overdue tasks = %+v, want just Late", view.OverdueTasks)
	}
}

func TestUpdateMissingTaskIs404(t *testing.T) {
	r, token := setupTestAPI(t)

	rec := doRequest(t, r, http.MethodPatch, "/api/tasks/nope", token, map[string]any{
		"status": "done",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing task = %d, want 404", rec.Code)
	}
}
