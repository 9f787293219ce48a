package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pipedeck/pipedeck/dashboard"
	"github.com/pipedeck/pipedeck/database"
	"github.com/pipedeck/pipedeck/services"
)

// AccountsHandler serves the account collection and account detail views.
type AccountsHandler struct {
	dataService *database.DataService
	hub         *services.Hub
}

func NewAccountsHandler(dataService *database.DataService, hub *services.Hub) *AccountsHandler {
	return &AccountsHandler{
		dataService: dataService,
		hub:         hub,
	}
}

// List returns the user's accounts ordered by company name, optionally
// filtered by ?search= and ?stage=.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	filter := database.AccountFilter{
		Search:  r.URL.Query().Get("search"),
		StageID: r.URL.Query().Get("stage"),
	}

	accounts, err := h.dataService.ListAccounts(userID, filter)
	if err != nil {
		respondStoreError(w, "listing accounts", err)
		return
	}

	respondJSON(w, accounts)
}

// accountDetail is the account page view model: the account, its linked
// tasks, and derived display values.
type accountDetail struct {
	Account         database.Account     `json:"account"`
	Tasks           []database.Task      `json:"tasks"`
	HealthTier      dashboard.HealthTier `json:"healthTier"`
	CompletionRatio float64              `json:"completionRatio"`
}

// Get returns one account with its tasks and derived health/progress.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	account, err := h.dataService.GetAccount(userID, mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, "getting account", err)
		return
	}

	tasks, err := h.dataService.ListTasksForAccount(userID, account.ID)
	if err != nil {
		respondStoreError(w, "listing account tasks", err)
		return
	}

	respondJSON(w, accountDetail{
		Account:         *account,
		Tasks:           tasks,
		HealthTier:      dashboard.ClassifyHealth(account.HealthScore),
		CompletionRatio: dashboard.CompletionRatio(tasks),
	})
}

// Create adds a new account and notifies the user's other sessions.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var in database.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	account, err := h.dataService.CreateAccount(userID, in)
	if err != nil {
		respondStoreError(w, "creating account", err)
		return
	}

	h.hub.Invalidate(userID, services.CollectionAccounts)
	respondJSON(w, account)
}

// Update applies a partial update and notifies the user's other sessions.
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var update database.AccountUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	account, err := h.dataService.UpdateAccount(userID, mux.Vars(r)["id"], update)
	if err != nil {
		respondStoreError(w, "updating account", err)
		return
	}

	h.hub.Invalidate(userID, services.CollectionAccounts)
	respondJSON(w, account)
}
