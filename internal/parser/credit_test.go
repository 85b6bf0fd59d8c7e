package parser

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/extratoapp/statement-importer/internal/models"
)

func TestCreditCardParser_Parse(t *testing.T) {
	p := &CreditCardParser{}

	doc := tokenDoc{{
		"Fatura de dezembro",
		"Vencimento:", "25/01/2026",
		"Cartão Gold (final 1234)",
		"Lançamentos",
		"26/12", "IFOOD", "*RESTAURANTE", "49,90",
		"10/01", "POSTO", "SHELL", "1.234,56",
	}}

	res := p.Parse(doc)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(res.Transactions))
	}

	// December charge on a January-due statement belongs to the prior year.
	txn := res.Transactions[0]
	if txn.Date != "2025-12-26" {
		t.Errorf("txn[0].Date: got %q, want %q", txn.Date, "2025-12-26")
	}
	if txn.Description != "IFOOD *RESTAURANTE" {
		t.Errorf("txn[0].Description: got %q, want %q", txn.Description, "IFOOD *RESTAURANTE")
	}
	if txn.Amount != 49.90 {
		t.Errorf("txn[0].Amount: got %f, want %f", txn.Amount, 49.90)
	}
	if txn.Type != models.TypeExpense {
		t.Errorf("txn[0].Type: got %q, want EXPENSE", txn.Type)
	}
	if txn.CardName != "Cartão Gold (final 1234)" {
		t.Errorf("txn[0].CardName: got %q", txn.CardName)
	}
	if txn.Installment != models.InstallmentSingle {
		t.Errorf("txn[0].Installment: got %q, want %q", txn.Installment, models.InstallmentSingle)
	}
	if txn.CategoryOriginal != models.CreditCategory {
		t.Errorf("txn[0].CategoryOriginal: got %q", txn.CategoryOriginal)
	}
	if txn.OriginalLine != "página 1" {
		t.Errorf("txn[0].OriginalLine: got %q, want %q", txn.OriginalLine, "página 1")
	}

	txn = res.Transactions[1]
	if txn.Date != "2026-01-10" {
		t.Errorf("txn[1].Date: got %q, want %q", txn.Date, "2026-01-10")
	}
	if txn.Amount != 1234.56 {
		t.Errorf("txn[1].Amount: got %f, want %f", txn.Amount, 1234.56)
	}
}

func TestCreditCardParser_CardCarryOver(t *testing.T) {
	p := &CreditCardParser{}

	doc := tokenDoc{
		{
			"Vencimento:", "25/01/2026",
			"01/01", "PADARIA", "10,00",
			"Cartão Black (final 5678)",
			"02/01", "FARMACIA", "20,00",
		},
		{
			// Label persists across pages until superseded.
			"03/01", "MERCADO", "30,00",
			"Cartão Virtual (final 9012)",
			"04/01", "LIVRARIA", "40,00",
		},
	}

	res := p.Parse(doc)
	if len(res.Transactions) != 4 {
		t.Fatalf("transactions: got %d, want 4", len(res.Transactions))
	}

	wantCards := []string{
		models.DefaultCardName,
		"Cartão Black (final 5678)",
		"Cartão Black (final 5678)",
		"Cartão Virtual (final 9012)",
	}
	for i, want := range wantCards {
		if got := res.Transactions[i].CardName; got != want {
			t.Errorf("txn[%d].CardName: got %q, want %q", i, got, want)
		}
	}
	if res.Transactions[2].OriginalLine != "página 2" {
		t.Errorf("txn[2].OriginalLine: got %q, want %q", res.Transactions[2].OriginalLine, "página 2")
	}
}

func TestCreditCardParser_SummaryRowsExcluded(t *testing.T) {
	p := &CreditCardParser{}

	doc := tokenDoc{{
		"Vencimento:", "25/01/2026",
		"05/01", "Total", "da", "fatura", "2.500,00",
		"06/01", "Saldo", "anterior", "100,00",
		"07/01", "SUPERMERCADO", "50,00",
	}}

	res := p.Parse(doc)
	if len(res.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1 (summary rows must be dropped)", len(res.Transactions))
	}
	if res.Transactions[0].Description != "SUPERMERCADO" {
		t.Errorf("Description: got %q, want %q", res.Transactions[0].Description, "SUPERMERCADO")
	}
}

func TestCreditCardParser_WindowAborts(t *testing.T) {
	p := &CreditCardParser{}

	// The first anchor has no amount before the next date; the second anchor
	// is a complete row and must still be parsed after the abort.
	doc := tokenDoc{{
		"Vencimento:", "25/01/2026",
		"08/01", "CABEÇALHO", "SOLTO",
		"09/01", "RESTAURANTE", "80,00",
	}}

	res := p.Parse(doc)
	if len(res.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(res.Transactions))
	}
	if res.Transactions[0].Date != "2026-01-09" {
		t.Errorf("Date: got %q, want %q", res.Transactions[0].Date, "2026-01-09")
	}

	// Section header terminates a window the same way.
	doc = tokenDoc{{
		"Vencimento:", "25/01/2026",
		"08/01", "pagina", "2", "Lançamentos",
		"09/01", "RESTAURANTE", "80,00",
	}}
	res = p.Parse(doc)
	if len(res.Transactions) != 1 {
		t.Fatalf("transactions after section header abort: got %d, want 1", len(res.Transactions))
	}
}

func TestCreditCardParser_WindowBound(t *testing.T) {
	p := &CreditCardParser{}

	// An amount past the 15-token window must not be reached.
	tokens := []string{"Vencimento:", "25/01/2026", "10/01"}
	for i := 0; i < creditWindowSize; i++ {
		tokens = append(tokens, fmt.Sprintf("desc%02d", i))
	}
	tokens = append(tokens, "99,99")

	res := p.Parse(tokenDoc{tokens})
	if len(res.Transactions) != 0 {
		t.Fatalf("transactions: got %d, want 0 (amount lies beyond the window)", len(res.Transactions))
	}
}

func TestCreditCardParser_DueDateLayouts(t *testing.T) {
	p := &CreditCardParser{}

	row := []string{"26/12", "LOJA", "10,00"}
	tests := []struct {
		name   string
		tokens []string
	}{
		{"marker then date token", append([]string{"Vencimento:", "25/01/2026"}, row...)},
		{"fused single token", append([]string{"Vencimento: 25/01/2026"}, row...)},
		{"marker split by extraction", append([]string{"Vencimento", "25/01/2026"}, row...)},
		{"date before currency marker", append([]string{"pagar", "até", "25/01/2026", "R$", "total"}, row...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Parse(tokenDoc{tt.tokens})
			if len(res.Transactions) != 1 {
				t.Fatalf("transactions: got %d, want 1", len(res.Transactions))
			}
			if got := res.Transactions[0].Date; got != "2025-12-26" {
				t.Errorf("Date: got %q, want %q (due-date layout not recognized)", got, "2025-12-26")
			}
		})
	}
}

func TestCreditCardParser_DueDateOnLaterPage(t *testing.T) {
	p := &CreditCardParser{}

	// Rows on page 1 are parsed before the due date shows up on page 2;
	// they get the current-year fallback, later rows get the real year.
	doc := tokenDoc{
		{"01/06", "ANTES", "10,00"},
		{"Vencimento:", "25/07/2026", "01/06", "DEPOIS", "20,00"},
	}

	res := p.Parse(doc)
	if len(res.Transactions) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(res.Transactions))
	}
	wantFallback := fmt.Sprintf("%d-06-01", time.Now().Year())
	if got := res.Transactions[0].Date; got != wantFallback {
		t.Errorf("txn[0].Date: got %q, want current-year fallback %q", got, wantFallback)
	}
	if got := res.Transactions[1].Date; got != "2026-06-01" {
		t.Errorf("txn[1].Date: got %q, want %q", got, "2026-06-01")
	}
}

func TestCreditCardParser_EmptyDocument(t *testing.T) {
	p := &CreditCardParser{}

	for _, doc := range []tokenDoc{{}, {{"sem", "datas", "aqui"}}} {
		res := p.Parse(doc)
		if res.Transactions == nil || len(res.Transactions) != 0 {
			t.Errorf("Transactions: got %#v, want empty non-nil slice", res.Transactions)
		}
		if res.Errors == nil || len(res.Errors) != 0 {
			t.Errorf("Errors: got %#v, want empty non-nil slice", res.Errors)
		}
	}
}

func TestCreditCardParser_Dedup(t *testing.T) {
	p := &CreditCardParser{}

	// The same row repeated by header text on two pages collapses to one.
	row := []string{"Vencimento:", "25/01/2026", "10/01", "ASSINATURA", "29,90"}
	doc := tokenDoc{row, row}

	res := p.Parse(doc)
	if len(res.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1 after dedup", len(res.Transactions))
	}
	// First occurrence wins, including its provenance.
	if got := res.Transactions[0].OriginalLine; got != "página 1" {
		t.Errorf("OriginalLine: got %q, want %q", got, "página 1")
	}
}

func TestCreditCardParser_InvalidCalendarDate(t *testing.T) {
	p := &CreditCardParser{}

	doc := tokenDoc{{
		"Vencimento:", "25/03/2026",
		"31/02", "DATA", "IMPOSSIVEL", "10,00",
		"28/02", "DATA", "VALIDA", "20,00",
	}}

	res := p.Parse(doc)
	if len(res.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1 (31/02 must be dropped)", len(res.Transactions))
	}
	if got := res.Transactions[0].Date; got != "2026-02-28" {
		t.Errorf("Date: got %q, want %q", got, "2026-02-28")
	}
}

func TestInferYear(t *testing.T) {
	due := &dueDate{month: 1, year: 2026}

	tests := []struct {
		month int
		want  int
	}{
		{12, 2025}, // strictly after the due month: previous cycle
		{2, 2025},
		{1, 2026}, // same month as due date
	}
	for _, tt := range tests {
		if got := inferYear(tt.month, due); got != tt.want {
			t.Errorf("inferYear(%d, due 01/2026) = %d, want %d", tt.month, got, tt.want)
		}
	}

	if got := inferYear(6, nil); got != time.Now().Year() {
		t.Errorf("inferYear without due date = %d, want current year", got)
	}
}

func TestIsSummaryRow(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"Total da fatura", true},
		{"SALDO ANTERIOR", true},
		{"saldo em aberto", true},
		{"subTOTAL", true},
		{"RESTAURANTE DA MARIA", false},
	}
	for _, tt := range tests {
		if got := isSummaryRow(tt.desc); got != tt.want {
			t.Errorf("isSummaryRow(%q) = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestIsCardLabel(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"Cartão Gold (final 1234)", true},
		{"(final 0000)", true},
		{"(final 1234", false}, // unclosed
		{"final 1234)", false}, // no marker
		{"RESTAURANTE", false},
	}
	for _, tt := range tests {
		if got := isCardLabel(tt.tok); got != tt.want {
			t.Errorf("isCardLabel(%q) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}

func TestCreditCardParser_LongDescriptionJoin(t *testing.T) {
	p := &CreditCardParser{}

	doc := tokenDoc{{
		"Vencimento:", "25/01/2026",
		"10/01", "PAG*", "Jose", "da", "Silva", "ME", "123,45",
	}}

	res := p.Parse(doc)
	if len(res.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(res.Transactions))
	}
	want := strings.Join([]string{"PAG*", "Jose", "da", "Silva", "ME"}, " ")
	if got := res.Transactions[0].Description; got != want {
		t.Errorf("Description: got %q, want %q", got, want)
	}
}
