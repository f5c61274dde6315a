package response

import (
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/household-finance/pkg/logger"
)

// ResponseHandler writes every API response. Successes use SuccessEnvelope;
// failures use ErrorResponse with a stable machine-readable code.
type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type responseHandler struct {
	// Log is used when a request carries no logger of its own.
	Log *slog.Logger
}

func New(log *slog.Logger) *responseHandler {
	return &responseHandler{Log: log}
}

func (h *responseHandler) log(r *http.Request) *slog.Logger {
	if l := logger.FromContext(r.Context()); l != slog.Default() || h.Log == nil {
		return l
	}
	return h.Log
}
