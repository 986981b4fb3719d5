// Package present formats snapshot values for the TV board.
package present

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "R$\u00a0"

// Deal titles in Bitrix usually start with the sale type. Order matters:
// more specific phrases come before the shorter ones they contain.
var titlePrefixes = []string{
	"Venda Direta Residencial",
	"Lista de Projeto Residencial",
	"Venda Direta Corporativo",
	"Venda Direta",
	"Decorativo Comercial",
	"Lista de Projeto Comercial",
	"Projeto Residencial",
	"Projeto Corporativo",
	"Projeto Comercial",
}

var prefixPatterns = compilePrefixes(titlePrefixes)

func compilePrefixes(prefixes []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(prefixes))
	for i, p := range prefixes {
		out[i] = regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(p) + `\s*-?\s*`)
	}
	return out
}

// Formatter renders amounts and times in Brazilian Portuguese.
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
	policy  *bluemonday.Policy
}

// New returns a Formatter for the board time zone. A nil loc means UTC.
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{
		loc:     loc,
		printer: message.NewPrinter(language.BrazilianPortuguese),
		policy:  bluemonday.StrictPolicy(),
	}
}

// Currency formats v as whole reais, e.g. "R$ 1.235". Halves round away from zero.
func (f *Formatter) Currency(v decimal.Decimal) string {
	rounded := v.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + currencySymbol + f.printer.Sprintf("%d", rounded.IntPart())
}

// Relative describes how long ago t was: "agora", "5min", "3h", "2d",
// then a "dd/mm" date from the seventh day on.
func (f *Formatter) Relative(t, now time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	hours := mins / 60
	days := hours / 24

	switch {
	case mins < 1:
		return "agora"
	case mins < 60:
		return fmt.Sprintf("%dmin", mins)
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	case days < 7:
		return fmt.Sprintf("%dd", days)
	}
	return t.In(f.loc).Format("02/01")
}

// Clock formats t as HH:MM in the board time zone.
func (f *Formatter) Clock(t time.Time) string {
	return t.In(f.loc).Format("15:04")
}

// CleanTitle strips markup and known sale-type prefixes from a deal title.
func (f *Formatter) CleanTitle(s string) string {
	cleaned := html.UnescapeString(f.policy.Sanitize(s))
	for _, re := range prefixPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}
