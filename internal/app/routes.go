package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the page, form and API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Page and form actions
	r.HandleFunc("/", deps.ExpenseListHandler.Page).Methods("GET")
	r.HandleFunc("/expenses", deps.ExpenseListHandler.AddForm).Methods("POST")
	r.HandleFunc("/expenses/remove-last", deps.ExpenseListHandler.RemoveLastForm).Methods("POST")

	// Expenses API
	r.HandleFunc("/api/expense", deps.ExpenseListHandler.ListExpenses).Methods("GET")
	r.HandleFunc("/api/expense", deps.ExpenseListHandler.CreateExpense).Methods("POST")
	r.HandleFunc("/api/expense/last", deps.ExpenseListHandler.RemoveLastExpense).Methods("DELETE")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
}
