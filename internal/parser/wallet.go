package parser

import (
	"fmt"

	"github.com/extratoapp/statement-importer/internal/models"
)

// Transfer-direction vocabulary of wallet statements. The literals must
// match extracted tokens exactly, case included.
const (
	pixSentLiteral     = "Pix Enviado"
	pixReceivedLiteral = "Pix Recebido"
)

// walletWindowSize covers the time-of-day token plus the up-to-10 tokens
// scanned for a transfer-direction literal.
const walletWindowSize = 11

// WalletParser reconstructs transactions from wallet transfer statements
// ("extrato"). Rows anchor on full DD/MM/YYYY dates, so no year inference
// is needed; direction comes from a fixed vocabulary of description
// literals, and any malformed row is dropped without a trace.
type WalletParser struct{}

func (p *WalletParser) Name() string {
	return "Extrato de Carteira"
}

func (p *WalletParser) Parse(doc Document) (res *models.ParseResult) {
	res = &models.ParseResult{
		Transactions: []models.ParsedTransaction{},
		Errors:       []string{},
	}
	defer func() {
		if r := recover(); r != nil {
			res.Transactions = res.Transactions[:0]
			res.Errors = append(res.Errors[:0], fmt.Sprintf("falha ao processar extrato: %v", r))
		}
	}()

	for page := 1; page <= doc.PageCount(); page++ {
		tokens := doc.PageTokens(page)

		i := 0
		for i < len(tokens) {
			tok := tokens[i]
			if !fullDatePattern.MatchString(tok) {
				i++
				continue
			}

			row, ok := scanWindow(tokens, i, walletWindowSize, classifyWalletToken)
			if !ok {
				i++
				continue
			}

			// The matched literal is the only description token.
			literal := row.description[0]
			amount, err := parseAmount(row.amount)
			if err != nil {
				i++
				continue
			}
			day, month, year := splitFullDate(tok)
			date, err := isoDate(year, month, day)
			if err != nil {
				i++
				continue
			}

			direction := models.TypeExpense
			if literal == pixReceivedLiteral {
				direction = models.TypeIncome
			}

			res.Transactions = append(res.Transactions, models.ParsedTransaction{
				Date:             date,
				Description:      models.WalletDescriptionPrefix + literal,
				CategoryOriginal: literal,
				Amount:           amount,
				Type:             direction,
				OriginalLine:     pageTag(page),
				Installment:      models.InstallmentSingle,
			})
			i = row.next
		}
	}

	res.Transactions = dedupTransactions(res.Transactions)
	return res
}

// classifyWalletToken drives the wallet lookahead window: the first token
// after the anchor is the time of day (read, never validated or retained),
// a transfer literal takes the very next token as the amount, everything
// else is ignored.
func classifyWalletToken(window []string, j int) tokenClass {
	if j == 0 {
		return classSkip
	}
	tok := window[j]
	if tok == pixSentLiteral || tok == pixReceivedLiteral {
		return classAmountNext
	}
	return classSkip
}
