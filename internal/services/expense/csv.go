package expense

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/models"
)

// csvColumns is the expected header, order-sensitive.
var csvColumns = []string{"date", "category", "title", "amount", "payment_method"}

// ImportCSV bulk-creates transactions from CSV data. Bad rows are skipped and
// reported per line; good rows still commit. One import audit event covers
// the whole batch.
func (s *service) ImportCSV(ctx context.Context, userID uint, data []byte) (*ImportReport, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %v", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}

		input, err := parseRow(record)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}

		if _, err := s.create(ctx, userID, input, false); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}
		report.Imported++
	}

	s.audit.Record(ctx, userID, models.AuditActionImport, nil, models.JSON{
		"imported": report.Imported,
		"skipped":  report.Skipped,
	})
	return report, nil
}

func validateHeader(header []string) error {
	if len(header) != len(csvColumns) {
		return fmt.Errorf("expected %d columns (%s), got %d", len(csvColumns), strings.Join(csvColumns, ","), len(header))
	}
	for i, col := range csvColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return fmt.Errorf("expected column %d to be %q, got %q", i+1, col, header[i])
		}
	}
	return nil
}

func parseRow(record []string) (Input, error) {
	if len(record) != len(csvColumns) {
		return Input{}, fmt.Errorf("expected %d fields, got %d", len(csvColumns), len(record))
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return Input{}, fmt.Errorf("bad date %q", record[0])
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return Input{}, fmt.Errorf("bad amount %q", record[3])
	}

	method := models.PaymentMethod(strings.ToLower(strings.TrimSpace(record[4])))
	if !models.ValidPaymentMethod(method) {
		return Input{}, fmt.Errorf("bad payment method %q", record[4])
	}

	return Input{
		Amount:        amount,
		Category:      strings.TrimSpace(record[1]),
		Title:         strings.TrimSpace(record[2]),
		Date:          date,
		PaymentMethod: method,
	}, nil
}
