package rest

import (
	"net/http"
	"os"

	"inspectkit/internal/service"
	"inspectkit/internal/transport/rest/handler"
	"inspectkit/internal/transport/rest/middleware"
	"inspectkit/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	TemplateService *service.TemplateService
	DraftService    *service.DraftService
	ReportService   *service.ReportService
	ExportService   *service.ExportService
	WSHub           *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	templateHandler := handler.NewTemplateHandler(c.TemplateService)
	draftHandler := handler.NewDraftHandler(c.DraftService)
	reportHandler := handler.NewReportHandler(c.ReportService, c.ExportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/templates/{templateId}/editor", wsHandler.EditorWS).Methods("GET")
	v1.HandleFunc("/ws/templates/{templateId}/preview", wsHandler.PreviewWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Operator routes (require operator auth)
	opRoutes := v1.NewRoute().Subrouter()
	opRoutes.Use(authMW.RequireOperator)

	opRoutes.HandleFunc("/templates", templateHandler.Create).Methods("POST", "OPTIONS")
	opRoutes.HandleFunc("/templates", templateHandler.List).Methods("GET", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}", templateHandler.Get).Methods("GET", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}", templateHandler.Update).Methods("PUT", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}", templateHandler.Delete).Methods("DELETE", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/publish", templateHandler.Publish).Methods("POST", "OPTIONS")

	// Structural edits
	opRoutes.HandleFunc("/templates/{templateId}/pages", templateHandler.AddPage).Methods("POST", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}", templateHandler.RemovePage).Methods("DELETE", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}/reorder", templateHandler.ReorderPage).Methods("POST", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}/sections", templateHandler.AddSection).Methods("POST", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}/sections/{sectionId}", templateHandler.RemoveSection).Methods("DELETE", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}/sections/{sectionId}/reorder", templateHandler.ReorderSection).Methods("POST", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}/sections/{sectionId}/questions", templateHandler.AddQuestion).Methods("POST", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}/sections/{sectionId}/questions/{questionId}", templateHandler.UpdateQuestion).Methods("PATCH", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/pages/{pageId}/sections/{sectionId}/questions/{questionId}", templateHandler.RemoveQuestion).Methods("DELETE", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/questions/{questionId}/move", templateHandler.MoveQuestion).Methods("POST", "OPTIONS")

	// Preview evaluation, reports, export
	opRoutes.HandleFunc("/templates/{templateId}/evaluate", templateHandler.Evaluate).Methods("POST", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/report", reportHandler.Get).Methods("GET", "POST", "OPTIONS")
	opRoutes.HandleFunc("/templates/{templateId}/export", reportHandler.Export).Methods("POST", "OPTIONS")

	// Unsaved-draft cache
	opRoutes.HandleFunc("/drafts", draftHandler.Save).Methods("PUT", "OPTIONS")
	opRoutes.HandleFunc("/drafts", draftHandler.Get).Methods("GET", "OPTIONS")
	opRoutes.HandleFunc("/drafts", draftHandler.Discard).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
