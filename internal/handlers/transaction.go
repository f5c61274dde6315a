package handlers

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/middleware"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/internal/response"
)

const maxStatementBytes = 10 << 20

type transactionService interface {
	Add(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error)
	Get(ctx context.Context, uid, id string) (*models.Transaction, error)
	List(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error)
	Update(ctx context.Context, uid, id string, req dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, uid, id string) error
	ImportOFX(ctx context.Context, uid string, r io.Reader, member string) (dto.ImportResult, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.AddTransaction)
	r.Get("/", h.ListTransactions)
	r.Post("/import/ofx", h.ImportOFX) // must be before /{transactionId}
	r.Get("/{transactionId}", h.GetTransaction)
	r.Patch("/{transactionId}", h.UpdateTransaction)
	r.Delete("/{transactionId}", h.DeleteTransaction)
	return r
}

func (h *transactionHandlers) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateTransactionRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	tx, err := h.TransactionSvc.Add(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, tx)
}

// ListTransactions accepts memberId, direction, category, bankId, source,
// from, to (YYYY-MM-DD, inclusive), limit and order=asc|desc (by date).
func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	q := dto.TransactionQuery{
		MemberID: queryParam(r, "memberId"),
		Category: queryParam(r, "category"),
		BankID:   queryParam(r, "bankId"),
		Source:   queryParam(r, "source"),
		DateFrom: queryParam(r, "from"),
		DateTo:   queryParam(r, "to"),
		OrderBy:  "date",
		Desc:     !strings.EqualFold(r.URL.Query().Get("order"), "asc"),
		Limit:    limit,
	}
	if d := queryParam(r, "direction"); d != nil {
		dir := models.Direction(strings.ToLower(*d))
		q.Direction = &dir
	}

	txs, err := h.TransactionSvc.List(r.Context(), middleware.UID(r.Context()), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.TransactionSvc.Get(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "transactionId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateTransactionRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	tx, err := h.TransactionSvc.Update(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "transactionId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.TransactionSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "transactionId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// ImportOFX takes the statement either as a multipart "file" field or as
// the raw request body. The optional member query parameter (or form
// field) attributes every imported record to that member.
func (h *transactionHandlers) ImportOFX(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStatementBytes)

	var statement io.Reader = r.Body
	member := r.URL.Query().Get("member")

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxStatementBytes); err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid multipart upload"))
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("file is required"))
			return
		}
		defer file.Close()
		statement = file
		if m := r.FormValue("member"); m != "" {
			member = m
		}
	}

	result, err := h.TransactionSvc.ImportOFX(r.Context(), middleware.UID(r.Context()), statement, member)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
