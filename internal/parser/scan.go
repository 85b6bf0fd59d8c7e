package parser

// Both statement parsers repeat the same motion: find an anchor token, open
// a bounded lookahead window and classify what follows until an amount or a
// terminator turns up. scanWindow is that motion, parameterized by window
// size and a per-token classifier; the bound guarantees a malformed anchor
// can never cause unbounded scanning.

// tokenClass is a classifier's verdict on one window token.
type tokenClass int

const (
	// classDescription accumulates the token into the row description.
	classDescription tokenClass = iota
	// classSkip reads the token and discards it.
	classSkip
	// classAmount closes the window successfully; the token is the amount.
	classAmount
	// classAmountNext joins the token to the description and takes the
	// immediately following token as the amount.
	classAmountNext
	// classAbort terminates the window as a failure.
	classAbort
)

// classifier inspects the j-th token of an open window. It may look at the
// whole window but must not mutate it.
type classifier func(window []string, j int) tokenClass

// rowWindow is the outcome of a successful lookahead window.
type rowWindow struct {
	description []string // accumulated description tokens, in order
	amount      string   // raw amount token, still locale-formatted
	next        int      // absolute token index where the outer scan resumes
}

// scanWindow opens a lookahead window of up to size tokens after the anchor
// at tokens[anchor] and classifies them. Success requires an amount and a
// non-empty description; the returned next index skips past everything the
// window consumed so the same tokens are never reconsidered as a new row.
// On failure the caller advances by one token, which lets a terminating
// anchor open its own window once the outer scan reaches it.
func scanWindow(tokens []string, anchor, size int, classify classifier) (rowWindow, bool) {
	var row rowWindow

	end := anchor + 1 + size
	if end > len(tokens) {
		end = len(tokens)
	}
	window := tokens[anchor+1 : end]

	for j, tok := range window {
		switch classify(window, j) {
		case classAmount:
			if len(row.description) == 0 {
				return rowWindow{}, false
			}
			row.amount = tok
			row.next = anchor + 1 + j + 1
			return row, true

		case classAmountNext:
			amountIdx := anchor + 1 + j + 1
			if amountIdx >= len(tokens) {
				return rowWindow{}, false
			}
			row.description = append(row.description, tok)
			row.amount = tokens[amountIdx]
			row.next = amountIdx + 1
			return row, true

		case classAbort:
			return rowWindow{}, false

		case classSkip:
			// read, not retained

		default:
			row.description = append(row.description, tok)
		}
	}

	// Window exhausted without finding an amount.
	return rowWindow{}, false
}
