package parser

import (
	"fmt"
	"strings"

	"github.com/extratoapp/statement-importer/internal/models"
)

// Document is the token-stream view of a statement produced by the text
// extraction layer: per 1-based page, the ordered sequence of trimmed,
// non-empty text fragments. Parsers never see glyph positions, fonts or
// coordinates — only fragment order and content.
type Document interface {
	PageCount() int
	PageTokens(page int) []string
}

// Parser reconstructs transactions from one statement document. Parse never
// raises past its boundary: document-level failures come back as a single
// entry in ParseResult.Errors, row-level failures are skipped silently.
type Parser interface {
	Parse(doc Document) *models.ParseResult
	// Name returns the human-readable statement format name.
	Name() string
}

// New returns the parser for the given statement type.
func New(statementType models.StatementType) (Parser, error) {
	switch statementType {
	case models.StatementCreditCard:
		return &CreditCardParser{}, nil
	case models.StatementWallet:
		return &WalletParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported statement type: %q", statementType)
	}
}

// AutoDetect identifies the statement format from its recognized literal
// vocabulary when the caller did not declare one.
func AutoDetect(doc Document) (models.StatementType, error) {
	for page := 1; page <= doc.PageCount(); page++ {
		for _, tok := range doc.PageTokens(page) {
			switch {
			case strings.Contains(tok, dueDateMarker),
				strings.Contains(tok, sectionHeaderMarker),
				isCardLabel(tok):
				return models.StatementCreditCard, nil
			case tok == pixSentLiteral, tok == pixReceivedLiteral:
				return models.StatementWallet, nil
			}
		}
	}
	return "", fmt.Errorf("could not auto-detect statement type from document content; specify it explicitly")
}
