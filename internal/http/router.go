package http

import (
	"net/http"

	"asset-backend/internal/auth"
	"asset-backend/internal/handlers"
	"asset-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	categoryHandler *handlers.CategoryHandler,
	locationHandler *handlers.LocationHandler,
	assetHandler *handlers.AssetHandler,
	workflowHandler *handlers.WorkflowHandler,
	attachmentHandler *handlers.AttachmentHandler,
	statisticsHandler *handlers.StatisticsHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	manageAssets := authMiddleware.RequireCapability(auth.CapManageAssets)
	decide := authMiddleware.RequireCapability(auth.CapDecideWorkflow)

	// Public routes
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Basic).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Notification websocket (token in query parameter)
	r.HandleFunc("/ws/notifications", wsHandler.Serve)

	// Users
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("/me", userHandler.Me).Methods("GET")
	usersAPI.Handle("", authMiddleware.RequireCapability(auth.CapManageUsers)(http.HandlerFunc(userHandler.List))).Methods("GET")
	usersAPI.Handle("/{id}", authMiddleware.RequireCapability(auth.CapManageUsers)(http.HandlerFunc(userHandler.Get))).Methods("GET")
	usersAPI.Handle("/{id}", authMiddleware.RequireCapability(auth.CapManageUsers)(http.HandlerFunc(userHandler.Update))).Methods("PUT")

	// Categories and locations
	catalogAPI := r.PathPrefix("/api").Subrouter()
	catalogAPI.Use(authMiddleware.Authenticate)
	catalogAPI.HandleFunc("/categories", categoryHandler.List).Methods("GET")
	catalogAPI.HandleFunc("/categories/{id}", categoryHandler.Get).Methods("GET")
	catalogAPI.HandleFunc("/locations", locationHandler.List).Methods("GET")
	catalogAPI.HandleFunc("/locations/{id}", locationHandler.Get).Methods("GET")

	manageCatalog := authMiddleware.RequireCapability(auth.CapManageCatalog)
	r.Handle("/api/categories", manageCatalog(http.HandlerFunc(categoryHandler.Create))).Methods("POST")
	r.Handle("/api/locations", manageCatalog(http.HandlerFunc(locationHandler.Create))).Methods("POST")

	// Assets (all authenticated users can view; mutations need the
	// asset management capability)
	assetsAPI := r.PathPrefix("/api/assets").Subrouter()
	assetsAPI.Use(authMiddleware.Authenticate)
	assetsAPI.HandleFunc("", assetHandler.List).Methods("GET")
	assetsAPI.HandleFunc("/{id}", assetHandler.Get).Methods("GET")
	assetsAPI.HandleFunc("/{id}/history", assetHandler.History).Methods("GET")
	assetsAPI.HandleFunc("/{id}/attachments", attachmentHandler.List).Methods("GET")
	assetsAPI.HandleFunc("/{id}/attachments/{attachmentId}/download", attachmentHandler.Download).Methods("GET")

	r.Handle("/api/assets", manageAssets(http.HandlerFunc(assetHandler.Create))).Methods("POST")
	r.Handle("/api/assets/{id}", manageAssets(http.HandlerFunc(assetHandler.Update))).Methods("PUT")
	r.Handle("/api/assets/{id}", manageAssets(http.HandlerFunc(assetHandler.Delete))).Methods("DELETE")
	r.Handle("/api/assets/{id}/restore", manageAssets(http.HandlerFunc(assetHandler.Restore))).Methods("POST")
	r.Handle("/api/assets/{id}/assign", manageAssets(http.HandlerFunc(assetHandler.Assign))).Methods("POST")
	r.Handle("/api/assets/{id}/unassign", manageAssets(http.HandlerFunc(assetHandler.Unassign))).Methods("POST")
	r.Handle("/api/assets/{id}/attachments", manageAssets(http.HandlerFunc(attachmentHandler.Upload))).Methods("POST")
	r.Handle("/api/assets/{id}/attachments/{attachmentId}", manageAssets(http.HandlerFunc(attachmentHandler.Delete))).Methods("DELETE")

	// Workflows
	workflowsAPI := r.PathPrefix("/api/workflows").Subrouter()
	workflowsAPI.Use(authMiddleware.Authenticate)
	workflowsAPI.HandleFunc("", workflowHandler.Create).Methods("POST")
	workflowsAPI.HandleFunc("/my-requests", workflowHandler.MyRequests).Methods("GET")
	workflowsAPI.HandleFunc("/unviewed-count", workflowHandler.UnviewedCount).Methods("GET")
	workflowsAPI.HandleFunc("/{id}", workflowHandler.Get).Methods("GET")
	workflowsAPI.HandleFunc("/{id}/cancel", workflowHandler.Cancel).Methods("POST")
	workflowsAPI.HandleFunc("/{id}/viewed", workflowHandler.MarkViewed).Methods("POST")

	r.Handle("/api/workflows", decide(http.HandlerFunc(workflowHandler.List))).Methods("GET")
	r.Handle("/api/workflows/{id}/approve", decide(http.HandlerFunc(workflowHandler.Approve))).Methods("POST")
	r.Handle("/api/workflows/{id}/reject", decide(http.HandlerFunc(workflowHandler.Reject))).Methods("POST")

	// Statistics and reports
	statsAPI := r.PathPrefix("/api/statistics").Subrouter()
	statsAPI.Use(authMiddleware.Authenticate)
	statsAPI.HandleFunc("/dashboard", statisticsHandler.Dashboard).Methods("GET")

	viewReports := authMiddleware.RequireCapability(auth.CapViewReports)
	r.Handle("/api/reports/inventory.pdf", viewReports(http.HandlerFunc(reportHandler.InventoryPDF))).Methods("GET")

	// Detailed health is for operators
	r.Handle("/api/health/detailed", decide(http.HandlerFunc(healthHandler.Detailed))).Methods("GET")

	return r
}
