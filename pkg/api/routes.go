package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Employee operations
	router.HandleFunc("/employees", h.HandleInsert).Methods("POST")
	router.HandleFunc("/employees", h.HandleFindAll).Methods("GET")
	router.HandleFunc("/employees/batch", h.HandleBatchInsert).Methods("POST")
	router.HandleFunc("/employees/stream", h.HandleStream).Methods("GET")

	// Employee operations (by ID)
	router.HandleFunc("/employees/{id:-?[0-9]+}", h.HandleGetById).Methods("GET")
	router.HandleFunc("/employees/{id:-?[0-9]+}", h.HandleDeleteById).Methods("DELETE")

	// Index queries
	router.HandleFunc("/departments", h.HandleDepartments).Methods("GET")
	router.HandleFunc("/departments/{dept}/budget", h.HandleDepartmentBudget).Methods("GET")
	router.HandleFunc("/managers/top", h.HandleTopManagers).Methods("GET")

	router.HandleFunc("/snapshot", h.HandleSnapshot).Methods("POST")
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
}
