// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bankchat/middleware"
	"github.com/danielhkuo/bankchat/models"
	"github.com/danielhkuo/bankchat/summary"
)

type SummaryHandler struct {
	summarizer summary.Summarizer
}

// NewSummaryHandler accepts a nil summarizer; the endpoint then answers 503.
func NewSummaryHandler(s summary.Summarizer) *SummaryHandler {
	return &SummaryHandler{summarizer: s}
}

// CustomerSummary handles POST /api/customers/{id}/summary
func (h *SummaryHandler) CustomerSummary(w http.ResponseWriter, r *http.Request) {
	if h.summarizer == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Customer summaries are not configured")
		return
	}

	customerID := r.PathValue("id")
	text, err := h.summarizer.Summarize(r.Context(), customerID)
	if errors.Is(err, summary.ErrEmptyCustomerID) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "customer id is required")
		return
	}
	if err != nil {
		slog.Error("failed to summarise customer", "customer_id", customerID, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to generate summary")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CustomerSummaryResponse{
		CustomerID: customerID,
		Summary:    text,
	})
}
