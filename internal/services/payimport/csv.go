package payimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sponsorship-backend/internal/services/matching"
)

// ParsedRow is one normalized statement line. Raw keeps the original
// header/value pairs untouched for audit.
type ParsedRow struct {
	TransactionDate time.Time
	Amount          decimal.Decimal
	Currency        string
	VariableSymbol  string
	SenderName      string
	SenderAccount   string
	Message         string
	Raw             map[string]string
}

// ParseError describes one skipped statement line.
type ParseError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Column aliases accepted in the header row, keyed by canonical field. Header
// names are normalized (lowercased, diacritics stripped, spaces to
// underscores) before lookup, so "Variabilní symbol" maps like
// "variable_symbol".
var headerAliases = map[string][]string{
	"date":     {"date", "transaction_date", "datum"},
	"amount":   {"amount", "castka"},
	"currency": {"currency", "mena"},
	"vs":       {"vs", "variable_symbol", "variabilni_symbol"},
	"sender":   {"sender", "sender_name", "counterparty", "protiucet_nazev"},
	"account":  {"account", "sender_account", "counterparty_account", "protiucet"},
	"message":  {"message", "note", "zprava", "zprava_pro_prijemce"},
}

var dateFormats = []string{"2006-01-02", "2.1.2006", "2/1/2006"}

// ParseStatement turns raw statement bytes into normalized rows. It is a pure
// transform: malformed lines are skipped and reported, never fatal, and
// persistence is left to the caller. Date, amount and currency are required
// per row; currency falls back to defaultCurrency when the column is missing
// or empty.
func ParseStatement(raw []byte, defaultCurrency string) ([]ParsedRow, []ParseError) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.Comma = sniffDelimiter(raw)

	header, err := reader.Read()
	if err != nil {
		return nil, []ParseError{{Line: 1, Message: "cannot read header row"}}
	}

	cols := mapColumns(header)
	if _, ok := cols["date"]; !ok {
		return nil, []ParseError{{Line: 1, Message: "missing required column: date"}}
	}
	if _, ok := cols["amount"]; !ok {
		return nil, []ParseError{{Line: 1, Message: "missing required column: amount"}}
	}

	var rows []ParsedRow
	var errs []ParseError
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errs = append(errs, ParseError{Line: line, Message: "malformed line"})
			continue
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		row, perr := parseRecord(record, header, cols, defaultCurrency)
		if perr != "" {
			errs = append(errs, ParseError{Line: line, Message: perr})
			continue
		}
		rows = append(rows, row)
	}

	return rows, errs
}

func parseRecord(record, header []string, cols map[string]int, defaultCurrency string) (ParsedRow, string) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	dateStr := field("date")
	if dateStr == "" {
		return ParsedRow{}, "missing transaction date"
	}
	date, ok := parseDate(dateStr)
	if !ok {
		return ParsedRow{}, fmt.Sprintf("unrecognized date format %q", dateStr)
	}

	amountStr := field("amount")
	if amountStr == "" {
		return ParsedRow{}, "missing amount"
	}
	amount, ok := parseAmount(amountStr)
	if !ok {
		return ParsedRow{}, fmt.Sprintf("invalid amount %q", amountStr)
	}

	currency := strings.ToUpper(field("currency"))
	if currency == "" {
		currency = strings.ToUpper(defaultCurrency)
	}

	raw := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(record) {
			raw[h] = record[i]
		}
	}

	return ParsedRow{
		TransactionDate: date,
		Amount:          amount,
		Currency:        currency,
		VariableSymbol:  field("vs"),
		SenderName:      field("sender"),
		SenderAccount:   field("account"),
		Message:         field("message"),
		Raw:             raw,
	}, ""
}

func parseDate(s string) (time.Time, bool) {
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts spaces (including non-breaking) as thousands separators
// and a comma as the decimal separator. Zero amounts are rejected.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.NewReplacer(" ", "", " ", "").Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsZero() {
		return decimal.Decimal{}, false
	}
	return d, true
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ReplaceAll(matching.NormalizeName(h), " ", "_")
		for canonical, aliases := range headerAliases {
			if _, seen := cols[canonical]; seen {
				continue
			}
			for _, a := range aliases {
				if key == a {
					cols[canonical] = i
					break
				}
			}
		}
	}
	return cols
}

// sniffDelimiter picks the separator from the first line. Czech bank exports
// commonly use semicolons.
func sniffDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	semis := bytes.Count(first, []byte(";"))
	commas := bytes.Count(first, []byte(","))
	tabs := bytes.Count(first, []byte("\t"))
	switch {
	case semis >= commas && semis >= tabs && semis > 0:
		return ';'
	case tabs > commas:
		return '\t'
	default:
		return ','
	}
}
