package economics

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"eventdesk/backend/internal/domain"
)

var kegTerms = []string{"fut", "barrel", "tonneau"}

// IsKegTracked is the naming heuristic: a product whose name mentions a keg
// ("fût", "barrel", "tonneau", in any case or accent) is counted as kegs.
// A keg whose name uses none of these words is silently treated as simple.
func IsKegTracked(productName string) bool {
	folded := foldName(productName)
	for _, term := range kegTerms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

// ClassifyName maps the heuristic onto a StockMode. It is used to default the
// mode of new products and to migrate rows stored before the mode existed.
func ClassifyName(productName string) domain.StockMode {
	if IsKegTracked(productName) {
		return domain.StockModeKeg
	}
	return domain.StockModeSimple
}

// ModeOf returns the stored mode of p, falling back to its name when the
// stored value is missing. Lines without a product count as simple.
func ModeOf(p *domain.Product) domain.StockMode {
	if p == nil {
		return domain.StockModeSimple
	}
	if p.StockMode.Valid() {
		return p.StockMode
	}
	return ClassifyName(p.Name)
}

func foldName(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
