package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/extratoapp/statement-importer/internal/models"
)

// Literal vocabulary of credit-card statements.
const (
	dueDateMarker       = "Vencimento:"
	cardLabelMarker     = "(final"
	sectionHeaderMarker = "Lançamentos"
)

// creditWindowSize bounds the lookahead opened by each DD/MM anchor.
const creditWindowSize = 15

var (
	// Marker and date fused into a single extracted token.
	dueDateInlinePattern = regexp.MustCompile(`Vencimento:?\s*(\d{2}/\d{2}/\d{4})`)
	// Last resort over the joined page text: a full date immediately
	// followed by the currency marker.
	dueDateNearCurrencyPattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*R\$`)
)

// CreditCardParser reconstructs transactions from credit-card statements
// ("fatura"). Rows anchor on DD/MM dates, the calendar year is inferred
// from the statement due date, the current card label is carried across
// pages, and every entry is an expense — credit statements are exclusively
// charges in this model.
type CreditCardParser struct{}

func (p *CreditCardParser) Name() string {
	return "Fatura de Cartão de Crédito"
}

// dueDate is the statement payment deadline. Only month and year matter:
// they disambiguate the year of the yearless DD/MM row anchors.
type dueDate struct {
	month int
	year  int
}

func (p *CreditCardParser) Parse(doc Document) (res *models.ParseResult) {
	res = &models.ParseResult{
		Transactions: []models.ParsedTransaction{},
		Errors:       []string{},
	}
	defer func() {
		if r := recover(); r != nil {
			res.Transactions = res.Transactions[:0]
			res.Errors = append(res.Errors[:0], fmt.Sprintf("falha ao processar fatura: %v", r))
		}
	}()

	// Carry-over state threaded through the page loop: the due date is
	// discovered once and cached, the card label persists until superseded.
	var due *dueDate
	card := models.DefaultCardName

	for page := 1; page <= doc.PageCount(); page++ {
		tokens := doc.PageTokens(page)
		if due == nil {
			due = findDueDate(tokens)
		}

		i := 0
		for i < len(tokens) {
			tok := tokens[i]

			if isCardLabel(tok) {
				card = tok
				i++
				continue
			}
			if !shortDatePattern.MatchString(tok) {
				i++
				continue
			}

			row, ok := scanWindow(tokens, i, creditWindowSize, classifyCreditToken)
			if !ok {
				i++
				continue
			}

			desc := strings.Join(row.description, " ")
			if isSummaryRow(desc) {
				// Totals and balances are statement summary lines, not
				// transactions; the window is still considered consumed.
				i = row.next
				continue
			}

			amount, err := parseAmount(row.amount)
			if err != nil {
				i++
				continue
			}
			day, month := splitShortDate(tok)
			date, err := isoDate(inferYear(month, due), month, day)
			if err != nil {
				i++
				continue
			}

			res.Transactions = append(res.Transactions, models.ParsedTransaction{
				Date:             date,
				Description:      desc,
				CategoryOriginal: models.CreditCategory,
				Amount:           amount,
				Type:             models.TypeExpense,
				OriginalLine:     pageTag(page),
				CardName:         card,
				Installment:      models.InstallmentSingle,
			})
			i = row.next
		}
	}

	res.Transactions = dedupTransactions(res.Transactions)
	return res
}

// classifyCreditToken drives the credit lookahead window: an amount token
// closes the row, a second DD/MM anchor or the line-items section header
// aborts it, anything else joins the description.
func classifyCreditToken(window []string, j int) tokenClass {
	tok := window[j]
	if amountPattern.MatchString(tok) {
		return classAmount
	}
	if shortDatePattern.MatchString(tok) || strings.Contains(tok, sectionHeaderMarker) {
		return classAbort
	}
	return classDescription
}

// findDueDate searches one page for the statement due date. Layouts seen in
// the wild: the marker token immediately followed by the date token, the
// marker and date fused into one token, and pages where extraction mangles
// the marker, in which case the joined page text is scanned — first for the
// marker pattern, then for a full date right before a currency marker.
// First match wins; the caller caches the result for the whole document.
func findDueDate(tokens []string) *dueDate {
	for i, tok := range tokens {
		if !strings.Contains(tok, dueDateMarker) {
			continue
		}
		if m := dueDateInlinePattern.FindStringSubmatch(tok); m != nil {
			return dueDateOf(m[1])
		}
		if i+1 < len(tokens) && fullDatePattern.MatchString(tokens[i+1]) {
			return dueDateOf(tokens[i+1])
		}
	}

	joined := strings.Join(tokens, " ")
	if m := dueDateInlinePattern.FindStringSubmatch(joined); m != nil {
		return dueDateOf(m[1])
	}
	if m := dueDateNearCurrencyPattern.FindStringSubmatch(joined); m != nil {
		return dueDateOf(m[1])
	}
	return nil
}

func dueDateOf(tok string) *dueDate {
	_, month, year := splitFullDate(tok)
	return &dueDate{month: month, year: year}
}

// inferYear assigns the calendar year of a DD/MM row. A month strictly
// after the due month belongs to the previous statement cycle (a December
// charge on a January-due statement). With no due date found anywhere in
// the document the current year is used — a heuristic, not a guarantee.
func inferYear(month int, due *dueDate) int {
	if due == nil {
		return time.Now().Year()
	}
	if month > due.month {
		return due.year - 1
	}
	return due.year
}

// isCardLabel reports whether tok is a card identifier such as
// "Cartão Gold (final 1234)".
func isCardLabel(tok string) bool {
	return strings.Contains(tok, cardLabelMarker) && strings.Contains(tok, ")")
}

// isSummaryRow filters totals and balances that can bracket a valid
// date+amount pair without being transactions.
func isSummaryRow(desc string) bool {
	upper := strings.ToUpper(desc)
	return strings.Contains(upper, "TOTAL") || strings.Contains(upper, "SALDO")
}
