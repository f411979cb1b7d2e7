// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/bankchat/middleware"
	"github.com/danielhkuo/bankchat/models"
	"github.com/danielhkuo/bankchat/store"
)

const (
	exportSheet = "Data"
	xlsxType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ExportHandler struct {
	store *store.Store
}

func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{store: s}
}

// TableXLSX handles GET /api/conversations/{id}/messages/{messageID}/table.xlsx
func (h *ExportHandler) TableXLSX(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	messageID := r.PathValue("messageID")

	msg, err := h.store.GetMessage(r.Context(), user.ID, r.PathValue("id"), messageID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		slog.Error("failed to load message", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !msg.Content.HasTable() {
		middleware.ErrorResponse(w, http.StatusNotFound, "Message has no table")
		return
	}

	data, err := BuildWorkbook(msg.Content)
	if err != nil {
		slog.Error("failed to build workbook", "message_id", messageID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export table")
		return
	}

	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, messageID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// BuildWorkbook renders a message table as a single-sheet xlsx file.
func BuildWorkbook(content models.MessageContent) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	cols := content.Columns()
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, col); err != nil {
			return nil, err
		}
	}

	if len(cols) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, err
		}
		last, err := excelize.CoordinatesToCellName(len(cols), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
			return nil, err
		}
	}

	for r, row := range content.TableData {
		for c, col := range cols {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, cellValue(row[col])); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Nested JSON values are written as their JSON text
func cellValue(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return v
}
