package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/extratoapp/statement-importer/internal/models"
)

// CSVWriter writes parsed transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the parse result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result *models.ParseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write writes the parse result in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, result *models.ParseResult) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		writer.Write([]string{"# Transações", strconv.Itoa(len(result.Transactions))})
		for _, msg := range result.Errors {
			writer.Write([]string{"# Erro", msg})
		}
	}

	header := []string{"Date", "Description", "Category", "Type", "Amount", "Card", "Installment"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range result.Transactions {
		row := []string{
			txn.Date,
			txn.Description,
			txn.CategoryOriginal,
			string(txn.Type),
			formatAmount(txn.Amount),
			txn.CardName,
			txn.Installment,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
