package api

import (
	"net/http"

	"github.com/alexivanou/placenotes-api/internal/service"
	"github.com/alexivanou/placenotes-api/internal/stats"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router wrapped in CORS, recovery and request logging
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Place lookups
	search := router.PathPrefix("/search").Subrouter()
	search.HandleFunc("", handler.SearchText).Methods("GET")
	search.HandleFunc("/reverse", handler.SearchByLocation).Methods("GET")
	search.HandleFunc("/photos", handler.GetPhotos).Methods("POST")
	search.HandleFunc("/cache", handler.ClearCaches).Methods("DELETE")

	// Place notes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/place-notes", handler.ListNotes).Methods("GET")
	api.HandleFunc("/place-notes", handler.CreateNote).Methods("POST")
	api.HandleFunc("/place-notes/{id}", handler.GetNote).Methods("GET")
	api.HandleFunc("/place-notes/{id}", handler.UpdateNote).Methods("PUT")
	api.HandleFunc("/place-notes/{id}", handler.DeleteNote).Methods("DELETE")
	if statsCollector != nil {
		api.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(false),
	)

	return requestLogger(logger)(recovery(cors(router)))
}
