package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kharcha/internal/services/export"
	"kharcha/internal/utils"
)

type ExportHandler struct {
	exportService export.Service
}

func NewExportHandler(exportService export.Service) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export returns the user's data as JSON, or as CSV when format=csv.
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req export.Request
	if from, err := parseDateQuery(c.Query("from")); err != nil {
		return utils.BadRequest(c, "from must be YYYY-MM-DD")
	} else {
		req.From = from
	}
	if to, err := parseDateQuery(c.Query("to")); err != nil {
		return utils.BadRequest(c, "to must be YYYY-MM-DD")
	} else {
		req.To = to
	}
	if raw := c.Query("categories"); raw != "" {
		req.Categories = strings.Split(raw, ",")
	}

	snapshot, err := h.exportService.Snapshot(c.Context(), claims.UserID, req)
	if err != nil {
		return utils.InternalError(c, "Failed to build export")
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"date", "category", "title", "amount", "payment_method", "status", "notes"})
		for _, txn := range snapshot.Transactions {
			_ = w.Write([]string{
				txn.Date.Format("2006-01-02"),
				txn.Category,
				txn.Title,
				fmt.Sprintf("%.2f", txn.Amount),
				string(txn.PaymentMethod),
				txn.Status,
				txn.Notes,
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return utils.InternalError(c, "Failed to write CSV")
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="expenses.csv"`)
		return c.Send(buf.Bytes())
	}

	return utils.Success(c, fiber.Map{"export": snapshot})
}
