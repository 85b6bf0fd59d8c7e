package extractor

import (
	"strings"
	"unicode"
)

// commonWords that appear in virtually every Brazilian statement. If the
// extracted tokens contain none of these, the output is likely garbage.
var commonWords = []string{
	"vencimento", "lançamentos", "fatura", "extrato", "cartão",
	"pix", "total", "saldo", "data", "valor", "pagamento", "limite",
	"transferência", "compra",
}

// accentedChars accepted by the readability check in addition to basic
// ASCII. unicode.IsLetter would be too broad — identity-encoded fonts
// produce garbage that is still "letters" — so only the accented characters
// Portuguese statements actually use are whitelisted.
const accentedChars = "áàâãéêíóôõúüçÁÀÂÃÉÊÍÓÔÕÚÜÇ"

// isReadableTokens checks that the pages carry enough text, that most of it
// is readable, and that at least one recognizable statement word appears.
func isReadableTokens(pages [][]string) bool {
	if totalTokenLen(pages) <= 50 {
		return false
	}
	if tokenQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

// tokenQuality returns the ratio of readable characters to total characters
// across all tokens, 0.0-1.0.
func tokenQuality(pages [][]string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, tok := range page {
			for _, r := range tok {
				total++
				if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
					(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
					r == '.' || r == ',' || r == '-' || r == '/' || r == ':' ||
					r == ';' || r == '(' || r == ')' || r == '\'' || r == '"' ||
					r == '$' || r == '%' || r == '&' || r == '@' || r == '#' ||
					r == '!' || r == '?' || r == '+' || r == '=' || r == '*' ||
					strings.ContainsRune(accentedChars, r) {
					readable++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func containsCommonWords(pages [][]string) bool {
	var b strings.Builder
	for _, page := range pages {
		for _, tok := range page {
			b.WriteString(strings.ToLower(tok))
			b.WriteByte(' ')
		}
	}
	combined := b.String()
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

func totalTokenLen(pages [][]string) int {
	n := 0
	for _, page := range pages {
		for _, tok := range page {
			n += len(tok)
		}
	}
	return n
}
