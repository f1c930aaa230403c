package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"payledger-backend/internal/handlers"
	"payledger-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	documentHandler *handlers.DocumentHandler,
	allocationHandler *handlers.AllocationHandler,
	paymentHandler *handlers.PaymentHandler,
	advanceHandler *handlers.AdvanceHandler,
	returnHandler *handlers.ReturnHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	// Registered on the router so the matched route template is available
	// for the path label.
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.RequireRole("admin"))
	usersAPI.HandleFunc("", authHandler.CreateUser).Methods("POST")

	// Documents
	documentsAPI := r.PathPrefix("/api/documents").Subrouter()
	documentsAPI.Use(authMiddleware.Authenticate)
	documentsAPI.HandleFunc("", documentHandler.Create).Methods("POST")
	documentsAPI.HandleFunc("/open", documentHandler.ListOpen).Methods("GET")
	documentsAPI.HandleFunc("/{id}/snapshot", documentHandler.Snapshot).Methods("GET")
	documentsAPI.HandleFunc("/{id}/preview", documentHandler.Preview).Methods("POST")
	documentsAPI.HandleFunc("/{id}/suggestions", documentHandler.Suggestions).Methods("GET")
	documentsAPI.HandleFunc("/{document_id}/payments", paymentHandler.ListByDocument).Methods("GET")
	documentsAPI.HandleFunc("/{document_id}/max-applicable", advanceHandler.MaxApplicable).Methods("GET")

	// Allocations
	allocationsAPI := r.PathPrefix("/api/allocations").Subrouter()
	allocationsAPI.Use(authMiddleware.Authenticate)
	allocationsAPI.HandleFunc("/preview", allocationHandler.Preview).Methods("POST")
	allocationsAPI.HandleFunc("/commit", allocationHandler.Commit).Methods("POST")

	// Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.Record).Methods("POST")
	paymentsAPI.HandleFunc("/batch", paymentHandler.RecordBatch).Methods("POST")
	paymentsAPI.HandleFunc("/{id}/clearing-state", authMiddleware.RequireRole("admin")(http.HandlerFunc(paymentHandler.UpdateClearingState)).ServeHTTP).Methods("PUT")

	// Advances
	advancesAPI := r.PathPrefix("/api/advances").Subrouter()
	advancesAPI.Use(authMiddleware.Authenticate)
	advancesAPI.HandleFunc("/{counterparty_id}", advanceHandler.Ledger).Methods("GET")
	advancesAPI.HandleFunc("/{counterparty_id}/balance", advanceHandler.Balance).Methods("GET")
	advancesAPI.HandleFunc("/{counterparty_id}/grant", authMiddleware.RequireRole("admin")(http.HandlerFunc(advanceHandler.Grant)).ServeHTTP).Methods("POST")
	advancesAPI.HandleFunc("/{counterparty_id}/apply", advanceHandler.Apply).Methods("POST")

	// Returns
	returnsAPI := r.PathPrefix("/api/returns").Subrouter()
	returnsAPI.Use(authMiddleware.Authenticate)
	returnsAPI.HandleFunc("", returnHandler.Settle).Methods("POST")

	return r
}
