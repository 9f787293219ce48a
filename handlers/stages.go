package handlers

import (
	"log"
	"net/http"

	"github.com/pipedeck/pipedeck/database"
	"github.com/pipedeck/pipedeck/services"
)

// StagesHandler serves the pipeline stage collection.
type StagesHandler struct {
	dataService *database.DataService
	seeder      *services.StageSeeder
	hub         *services.Hub
}

func NewStagesHandler(dataService *database.DataService, seeder *services.StageSeeder, hub *services.Hub) *StagesHandler {
	return &StagesHandler{
		dataService: dataService,
		seeder:      seeder,
		hub:         hub,
	}
}

// List returns the user's stages in display order. Observing an empty
// stage list after a successful load is what arms the seeder: a first-time
// user gets the default pipeline created here, then a fresh read.
func (h *StagesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	stages, err := h.dataService.ListStages(userID)
	if err != nil {
		respondStoreError(w, "listing stages", err)
		return
	}

	if len(stages) == 0 {
		seeded, err := h.seeder.EnsureDefaultStages(userID)
		if err != nil {
			// The next empty-list observation retries; serve the empty
			// list rather than failing the read.
			log.Printf("Error seeding default stages for %s: %v", userID, err)
		}
		if seeded {
			h.hub.Invalidate(userID, services.CollectionStages)
			stages, err = h.dataService.ListStages(userID)
			if err != nil {
				respondStoreError(w, "listing stages", err)
				return
			}
		}
	}

	respondJSON(w, stages)
}
