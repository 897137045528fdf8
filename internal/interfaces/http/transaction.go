package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"tally/internal/domain/transaction"
	"tally/internal/shared/middleware"
)

type TransactionHandler struct {
	ledger *transaction.Service
}

func NewTransactionHandler(ledger *transaction.Service) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type CreateTransactionRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type UpdateTransactionRequest struct {
	Status string `json:"status"`
}

// HandleCreateTransaction creates a new pending transaction owned by the caller
func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	if u == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create transaction request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := h.ledger.Create(r.Context(), transaction.CreateTransactionParams{
		Amount:      req.Amount,
		Description: req.Description,
		UserID:      u.ID,
	})
	if err != nil {
		var vErr *transaction.ValidationError
		if errors.As(err, &vErr) {
			http.Error(w, vErr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error creating transaction for user %d: %v", u.ID, err)
		http.Error(w, fmt.Sprintf("An error occurred: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tx)
}

// HandleListTransactions returns a page of the caller's transactions
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	if u == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	transactions, err := h.ledger.ListByUser(r.Context(), u.ID, limit, offset)
	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", u.ID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []*transaction.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

// HandleGetTransaction returns a single transaction by id
func (h *TransactionHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	if u == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tx, err := h.ledger.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting transaction %s: %v", r.PathValue("id"), err)
		http.Error(w, "Failed to get transaction", http.StatusInternalServerError)
		return
	}

	if tx.UserID != u.ID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tx)
}

// HandleUpdateTransaction overwrites a transaction's status. The new status
// comes from the status query parameter or a JSON body.
func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	if u == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	statusStr := r.URL.Query().Get("status")
	if statusStr == "" {
		var req UpdateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "status is required", http.StatusBadRequest)
			return
		}
		statusStr = req.Status
	}

	status, err := transaction.ParseStatus(statusStr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")

	current, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting transaction %s: %v", id, err)
		http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	if current.UserID != u.ID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	tx, err := h.ledger.UpdateStatus(r.Context(), id, status)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating transaction %s: %v", id, err)
		http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tx)
}
