package bluechip

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// positions table header, in that order when encoding.
var positionsHeader = []string{"Ticker", "Quantity", "PurchasePrice"}

// headerAliases maps every accepted header (lower cased) to its column.
// It accepts files written by the original dashboard.
var headerAliases = map[string]int{
	"ticker":              0,
	"symbol":              0,
	"quantity":            1,
	"quantité":            1,
	"shares":              1,
	"purchaseprice":       2,
	"purchase_price":      2,
	"prix achat ($ ou €)": 2,
	"prix achat":          2,
}

// EncodePositions writes the positions as a header tagged CSV table.
func EncodePositions(w io.Writer, positions []Position) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(positionsHeader); err != nil {
		return err
	}
	for _, p := range positions {
		if err := cw.Write([]string{p.Ticker, p.Quantity.String(), p.PurchasePrice.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodePositions reads a CSV table of positions. Columns are identified by
// their header, in any order. Blank lines are skipped.
func DecodePositions(r io.Reader) ([]Position, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading positions header: %w", err)
	}
	cols := [3]int{-1, -1, -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if c, ok := headerAliases[h]; ok {
			cols[c] = i
		}
	}
	for c, i := range cols {
		if i < 0 {
			return nil, fmt.Errorf("positions header %q: missing column %q", header, positionsHeader[c])
		}
	}

	var positions []Position
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading positions: %w", err)
		}
		line, _ := cr.FieldPos(0)
		field := func(c int) string {
			if cols[c] >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[cols[c]])
		}
		ticker := NormalizeTicker(field(0))
		if ticker == "" {
			continue
		}
		q, err := ParseQuantity(field(1))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		price, err := decimal.NewFromString(field(2))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid purchase price %q: %w", line, field(2), err)
		}
		positions = append(positions, Position{Ticker: ticker, Quantity: q, PurchasePrice: price})
	}
	return positions, nil
}

// decodeAmount reads a file holding a single number.
func decodeAmount(content []byte) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(content))
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
