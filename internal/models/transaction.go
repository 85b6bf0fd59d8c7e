package models

// TransactionType is the direction of a transaction. The amount itself is
// always stored as an absolute value; the sign lives here.
type TransactionType string

const (
	TypeExpense TransactionType = "EXPENSE"
	TypeIncome  TransactionType = "INCOME"
)

// Fixed labels applied when the statement carries no value of its own.
const (
	// InstallmentSingle marks a purchase with no installment plan.
	InstallmentSingle = "Única"
	// CreditCategory is the category tag for credit-card statement rows,
	// which carry no category of their own.
	CreditCategory = "Cartão de Crédito"
	// DefaultCardName is used until a "(final ####)" card label is seen.
	DefaultCardName = "Cartão"
	// WalletDescriptionPrefix identifies the wallet source in composed
	// descriptions, e.g. "Carteira - Pix Enviado".
	WalletDescriptionPrefix = "Carteira - "
)

// ParsedTransaction is a single transaction reconstructed from a statement.
type ParsedTransaction struct {
	Date             string          `json:"date"` // ISO YYYY-MM-DD, year possibly inferred
	Description      string          `json:"description"`
	CategoryOriginal string          `json:"categoryOriginal"`
	Amount           float64         `json:"amount"` // absolute value, >= 0
	Type             TransactionType `json:"type"`
	OriginalLine     string          `json:"originalLine"`       // provenance: originating page
	CardName         string          `json:"cardName,omitempty"` // credit statements only
	Installment      string          `json:"installment"`        // "Única" when not parsed
}

// ParseResult is what a statement parser returns. A parse that fails at the
// document level yields no transactions and a single error message; a parse
// that completes always returns this record, never a raised fault.
type ParseResult struct {
	Transactions []ParsedTransaction `json:"transactions"`
	Errors       []string            `json:"errors"`
}

// StatementType identifies the supported statement formats.
type StatementType string

const (
	StatementCreditCard StatementType = "credit_card"
	StatementWallet     StatementType = "wallet"
)
