package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pipedeck/pipedeck/dashboard"
	"github.com/pipedeck/pipedeck/database"
	"github.com/pipedeck/pipedeck/services"
)

// TasksHandler serves the task collection and the board view.
type TasksHandler struct {
	dataService *database.DataService
	hub         *services.Hub
}

func NewTasksHandler(dataService *database.DataService, hub *services.Hub) *TasksHandler {
	return &TasksHandler{
		dataService: dataService,
		hub:         hub,
	}
}

// List returns the user's tasks, newest first.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	tasks, err := h.dataService.ListTasks(userID)
	if err != nil {
		respondStoreError(w, "listing tasks", err)
		return
	}

	respondJSON(w, tasks)
}

// boardView is the task board: the four status columns plus the overdue
// subset.
type boardView struct {
	Columns []dashboard.BoardColumn `json:"columns"`
	Overdue []database.Task         `json:"overdue"`
}

// Board returns the user's tasks partitioned into status columns.
func (h *TasksHandler) Board(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	tasks, err := h.dataService.ListTasks(userID)
	if err != nil {
		respondStoreError(w, "listing tasks", err)
		return
	}

	respondJSON(w, boardView{
		Columns: dashboard.PartitionBoard(tasks),
		Overdue: dashboard.OverdueTasks(time.Now(), tasks),
	})
}

// Create adds a new task and notifies the user's other sessions.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var in database.NewTask
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	task, err := h.dataService.CreateTask(userID, in)
	if err != nil {
		respondStoreError(w, "creating task", err)
		return
	}

	h.hub.Invalidate(userID, services.CollectionTasks)
	respondJSON(w, task)
}

// Update applies a partial update and notifies the user's other sessions.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var update database.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	task, err := h.dataService.UpdateTask(userID, mux.Vars(r)["id"], update)
	if err != nil {
		respondStoreError(w, "updating task", err)
		return
	}

	h.hub.Invalidate(userID, services.CollectionTasks)
	respondJSON(w, task)
}
