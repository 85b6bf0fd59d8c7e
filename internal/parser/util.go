package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/extratoapp/statement-importer/internal/models"
)

// Pattern grammar shared by the statement parsers.
var (
	// DD/MM with no year — credit statement row anchor.
	shortDatePattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	// DD/MM/YYYY — wallet row anchor and due-date format.
	fullDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	// Brazilian-locale amount: optional leading sign, digit groups
	// optionally separated by dots, a mandatory decimal comma and exactly
	// two decimals.
	amountPattern = regexp.MustCompile(`^-?[\d.]*,\d{2}$`)
)

// parseAmount converts a Brazilian-locale amount such as "1.234,56",
// "R$ 649,00" or "- R$ 10,00" into its absolute decimal value. The sign is
// discarded: transaction direction is carried by the type field, never by
// the number.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", " ") // non-breaking space
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if v < 0 {
		v = -v
	}
	return v, nil
}

// isoDate validates day/month/year as a real calendar date and renders it
// as YYYY-MM-DD.
func isoDate(year, month, day int) (string, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", fmt.Errorf("invalid calendar date %02d/%02d/%04d", day, month, year)
	}
	return t.Format("2006-01-02"), nil
}

// splitShortDate splits a "DD/MM" token. The token must already match
// shortDatePattern.
func splitShortDate(tok string) (day, month int) {
	day, _ = strconv.Atoi(tok[:2])
	month, _ = strconv.Atoi(tok[3:5])
	return day, month
}

// splitFullDate splits a "DD/MM/YYYY" token. The token must already match
// fullDatePattern.
func splitFullDate(tok string) (day, month, year int) {
	day, _ = strconv.Atoi(tok[:2])
	month, _ = strconv.Atoi(tok[3:5])
	year, _ = strconv.Atoi(tok[6:10])
	return day, month, year
}

// pageTag renders the provenance label stored in OriginalLine.
func pageTag(page int) string {
	return fmt.Sprintf("página %d", page)
}

// dedupTransactions keeps only the first occurrence, in original order, of
// each distinct (date, description, amount) triple. The bounded lookahead
// windows can re-trigger on overlapping tokens near page boundaries or on
// repeated header text, producing exact duplicates; later occurrences are
// dropped. Provenance is deliberately not part of the key so the same row
// repeated on a different page still collapses.
func dedupTransactions(txns []models.ParsedTransaction) []models.ParsedTransaction {
	seen := make(map[string]struct{}, len(txns))
	out := make([]models.ParsedTransaction, 0, len(txns))
	for _, t := range txns {
		key := fmt.Sprintf("%s|%s|%.2f", t.Date, t.Description, t.Amount)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
