// Package cyclistcsv reads rider catalogs exported as CSV with the columns
// Coureur, Équipe and Prix min.
package cyclistcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
)

const utf8BOM = "\ufeff"

var columnAliases = map[string][]string{
	"name":      {"coureur", "rider", "name"},
	"team":      {"équipe", "equipe", "team"},
	"min_price": {"prix min", "prix_min", "min price", "min_price"},
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]cyclist.Cyclist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cyclist csv: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Read(f)
}

// Read parses catalog rows. Returned cyclists carry no id; blank lines are skipped.
func Read(r io.Reader) ([]cyclist.Cyclist, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cyclist csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read cyclist csv header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []cyclist.Cyclist
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read cyclist csv: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		name := field(record, index["name"])
		if name == "" {
			return nil, fmt.Errorf("line %d: rider name is empty", line)
		}
		price, err := parsePrice(field(record, index["min_price"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
		}
		out = append(out, cyclist.Cyclist{
			Name:     name,
			Team:     field(record, index["team"]),
			MinPrice: price,
		})
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(columnAliases))
	for i, raw := range header {
		col := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, utf8BOM)))
		for key, aliases := range columnAliases {
			for _, alias := range aliases {
				if col == alias {
					index[key] = i
				}
			}
		}
	}

	var missing []string
	for _, key := range []string{"name", "team", "min_price"} {
		if _, ok := index[key]; !ok {
			missing = append(missing, columnAliases[key][0])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("cyclist csv is missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return decimal.Zero, fmt.Errorf("minimum price is empty")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid minimum price %q", raw)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("minimum price must be > 0, got %s", price)
	}
	return price, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
