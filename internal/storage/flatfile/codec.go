package flatfile

import (
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

const separator = ","

// EncodeLine renders e as "date,name,category,amount" without a line break.
// Embedded separators are not escaped.
func EncodeLine(e core.Expense) string {
	return strings.Join([]string{e.Date, e.Name, e.Category, core.FormatAmount(e.Amount)}, separator)
}

// DecodeLine parses one stored line. It reports false when the line does not
// split into exactly four fields or the amount is not a number.
func DecodeLine(line string) (core.Expense, bool) {
	parts := strings.Split(strings.TrimSuffix(line, "\r"), separator)
	if len(parts) != 4 {
		return core.Expense{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
	if err != nil {
		return core.Expense{}, false
	}
	return core.Expense{
		Date:     parts[0],
		Name:     parts[1],
		Category: parts[2],
		Amount:   amount,
	}, true
}
