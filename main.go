package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pipedeck/pipedeck/database"
	"github.com/pipedeck/pipedeck/handlers"
	"github.com/pipedeck/pipedeck/services"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables from .env file, if present
	if err := LoadEnv(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
		return
	}

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize services
	authService := services.NewAuthService()
	dataService := database.NewDataService(db)
	seeder := services.NewStageSeeder(dataService)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, dataService)
	accountsHandler := handlers.NewAccountsHandler(dataService, hub)
	stagesHandler := handlers.NewStagesHandler(dataService, seeder, hub)
	tasksHandler := handlers.NewTasksHandler(dataService, hub)
	dashboardHandler := handlers.NewDashboardHandler(dataService)
	wsHandler := handlers.NewWebSocketHandler(hub)
	authMiddleware := handlers.NewAuthMiddleware(authService)

	// Setup router
	r := mux.NewRouter()

	// Auth routes
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify", authHandler.VerifyToken).Methods("GET")
	r.HandleFunc("/api/auth/magic-link", authHandler.HandleMagicLink).Methods("GET")

	// Data routes (protected)
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

	// WebSocket route for invalidation push
	api.HandleFunc("/ws", wsHandler.Handle)

	// Static file server for frontend
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./")))

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, change to your domain
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(server.ListenAndServe())
}
