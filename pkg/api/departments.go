package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

type DepartmentsResponse struct {
	Departments []string `json:"departments"`
}

type BudgetResponse struct {
	Department string `json:"department"`
	Budget     int    `json:"budget"`
}

// HandleDepartments lists the non-empty departments
func (h *Handler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DepartmentsResponse{Departments: h.company.Departments()})
}

// HandleDepartmentBudget returns the salary total of one department; unknown
// departments have a zero budget.
func (h *Handler) HandleDepartmentBudget(w http.ResponseWriter, r *http.Request) {
	dept := mux.Vars(r)["dept"]
	writeJSON(w, http.StatusOK, BudgetResponse{
		Department: dept,
		Budget:     h.company.DepartmentBudget(dept),
	})
}
