// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/bankchat/models"
	"github.com/danielhkuo/bankchat/summary"
	"github.com/danielhkuo/bankchat/testutil"
)

type fakeSummarizer struct {
	err error
}

func (f fakeSummarizer) Summarize(ctx context.Context, customerID string) (string, error) {
	if strings.TrimSpace(customerID) == "" {
		return "", summary.ErrEmptyCustomerID
	}
	if f.err != nil {
		return "", f.err
	}
	return "Customer " + customerID + " holds two savings accounts.", nil
}

func (f fakeSummarizer) Close() error { return nil }

func TestCustomerSummary(t *testing.T) {
	tests := []struct {
		name           string
		summarizer     summary.Summarizer
		customerID     string
		expectedStatus int
	}{
		{"not configured", nil, "C-100", http.StatusServiceUnavailable},
		{"success", fakeSummarizer{}, "C-100", http.StatusOK},
		{"blank id", fakeSummarizer{}, " ", http.StatusBadRequest},
		{"model failure", fakeSummarizer{err: errors.New("quota exceeded")}, "C-100", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSummaryHandler(tt.summarizer)
			req := asUser(testutil.MakeRequest("POST", "/api/customers/x/summary", nil, nil), testRM)
			req.SetPathValue("id", tt.customerID)
			w := httptest.NewRecorder()

			h.CustomerSummary(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.CustomerSummaryResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.CustomerID != tt.customerID || !strings.Contains(resp.Summary, tt.customerID) {
					t.Errorf("Unexpected summary response: %+v", resp)
				}
			}
		})
	}
}
