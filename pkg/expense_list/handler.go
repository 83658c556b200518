package expense_list

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/splitthat/splitthat/pkg/expense"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/expenses.html
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/expenses.html"))

type ExpenseDTO struct {
	Id   int64   `json:"id"`
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// NewExpenseDTO carries the cost as typed, so parsing stays on the server.
type NewExpenseDTO struct {
	Name string `json:"name"`
	Cost string `json:"cost"`
}

type pageRow struct {
	Name string
	Cost string
}

type pageData struct {
	Expenses  []pageRow
	Total     string
	NameInput string
	CostInput string
	Empty     bool
	Error     string
}

type Handler struct {
	screen *Screen
}

func NewHandler(screen *Screen) *Handler {
	return &Handler{screen: screen}
}

// Page renders the expense list with its two inputs and buttons.
func (handler *Handler) Page(w http.ResponseWriter, r *http.Request) {
	handler.render(w, http.StatusOK, handler.screen.Snapshot(), "")
}

// AddForm handles the "Add Expense" button.
func (handler *Handler) AddForm(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding expense from form")
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.PostForm.Get("name")
	costText := r.PostForm.Get("cost")

	if _, err := handler.screen.Add(r.Context(), name, costText); err != nil {
		state := handler.screen.Snapshot()
		state.NameInput = name
		state.CostInput = costText
		handler.render(w, statusFor(err), state, messageFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RemoveLastForm handles the "Remove Last Expense" button.
func (handler *Handler) RemoveLastForm(w http.ResponseWriter, r *http.Request) {
	log.Debug("Removing last expense from form")
	if _, _, err := handler.screen.RemoveLast(r.Context()); err != nil {
		handler.render(w, statusFor(err), handler.screen.Snapshot(), messageFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ListExpenses godoc
// @Summary List expenses
// @Description Get all expenses in insertion order
// @Tags Expense
// @Produce json
// @Success 200 {array} ExpenseDTO
// @Router /api/expense [get]
func (handler *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing expenses")
	w.Header().Set("Content-Type", "application/json")

	state := handler.screen.Snapshot()
	expensesDTO := make([]ExpenseDTO, 0, len(state.Expenses))
	for _, e := range state.Expenses {
		expensesDTO = append(expensesDTO, ExpenseToDTO(e))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(expensesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateExpense godoc
// @Summary Add an expense
// @Description Append an expense; cost is the text typed by the user
// @Tags Expense
// @Accept json
// @Produce json
// @Param expense body NewExpenseDTO true "Expense"
// @Success 201 {object} ExpenseDTO
// @Failure 400 {string} string "Cost is not a number"
// @Failure 500 {string} string "Storage failure"
// @Router /api/expense [post]
func (handler *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating expense")
	w.Header().Set("Content-Type", "application/json")

	var newExpense NewExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&newExpense); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.screen.Add(r.Context(), newExpense.Name, newExpense.Cost)
	if err != nil {
		http.Error(w, messageFor(err), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(added)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// RemoveLastExpense godoc
// @Summary Remove the last expense
// @Description Remove the most recently added expense, if any
// @Tags Expense
// @Produce json
// @Success 200 {object} ExpenseDTO
// @Success 204 "List was empty"
// @Failure 500 {string} string "Storage failure"
// @Router /api/expense/last [delete]
func (handler *Handler) RemoveLastExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Removing last expense")
	w.Header().Set("Content-Type", "application/json")

	removed, ok, err := handler.screen.RemoveLast(r.Context())
	if err != nil {
		http.Error(w, messageFor(err), statusFor(err))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(removed)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) render(w http.ResponseWriter, status int, state State, errorMessage string) {
	data := pageData{
		Expenses:  make([]pageRow, 0, len(state.Expenses)),
		Total:     state.Total().StringFixed(2),
		NameInput: state.NameInput,
		CostInput: state.CostInput,
		Empty:     state.IsEmpty(),
		Error:     errorMessage,
	}
	for _, e := range state.Expenses {
		data.Expenses = append(data.Expenses, pageRow{Name: e.Name, Cost: FormatAmount(e.Cost)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		log.Errorf("failed to render expense list: %v", err)
	}
}

func statusFor(err error) int {
	if errors.Is(err, expense.ErrInvalidCost) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, expense.ErrInvalidCost):
		return err.Error()
	case errors.Is(err, expense.ErrStorage):
		return "Could not save your change, please try again."
	default:
		return err.Error()
	}
}

// FormatAmount renders a cost with two decimals.
func FormatAmount(cost float64) string {
	return decimal.NewFromFloat(cost).StringFixed(2)
}

func ExpenseToDTO(e expense.Expense) ExpenseDTO {
	return ExpenseDTO{
		Id:   e.ID,
		Name: e.Name,
		Cost: e.Cost,
	}
}
