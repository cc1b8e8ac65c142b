package shipstream

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Table is a rectangular view of a JSON payload: one column per flattened
// key, one row per record. Cells are display strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// maxFlattenDepth bounds the dotted-prefix recursion. Payloads nested past
// this are not tables in any useful sense and surface as a soft warning.
const maxFlattenDepth = 32

// ErrTooDeep reports a payload nested beyond maxFlattenDepth.
var ErrTooDeep = errors.New("payload nested too deeply to flatten")

// envelopeListKeys is the fallback chain for object payloads: the API's own
// envelope key first, then the generic names other endpoints and versions
// have been seen to use.
var envelopeListKeys = []string{"collection", "data", "results", "items", "shipments"}

// Flatten converts an arbitrary payload into a Table.
//
//   - A list flattens to one row per element, nested objects becoming
//     dotted columns (order.merchant.id style). Lists inside a record stay
//     as compact JSON cells.
//   - An object prefers a nested list under one of envelopeListKeys and
//     flattens that; with no such list the object itself becomes a
//     single-row table.
//   - Anything else yields a one-row, one-column "raw" table.
//
// Column order is first-seen document order across all rows.
func Flatten(payload any) (Table, error) {
	switch t := payload.(type) {
	case []any:
		return flattenList(t)
	case *Obj:
		for _, key := range envelopeListKeys {
			if v, ok := t.Get(key); ok {
				if list, ok := v.([]any); ok {
					return flattenList(list)
				}
			}
		}
		return flattenList([]any{t})
	default:
		return Table{Columns: []string{"raw"}, Rows: [][]string{{Stringify(payload)}}}, nil
	}
}

func flattenList(list []any) (Table, error) {
	var columns []string
	seen := make(map[string]int)

	cells := make([]map[string]string, 0, len(list))
	for _, elem := range list {
		flat := make(map[string]string)
		switch t := elem.(type) {
		case *Obj:
			if err := flattenInto(flat, &columns, seen, "", t, 0); err != nil {
				return Table{}, err
			}
		default:
			if _, ok := seen["value"]; !ok {
				seen["value"] = len(columns)
				columns = append(columns, "value")
			}
			flat["value"] = Stringify(elem)
		}
		cells = append(cells, flat)
	}

	rows := make([][]string, len(cells))
	for i, flat := range cells {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = flat[col]
		}
		rows[i] = row
	}
	return Table{Columns: columns, Rows: rows}, nil
}

func flattenInto(flat map[string]string, columns *[]string, seen map[string]int, prefix string, obj *Obj, depth int) error {
	if depth > maxFlattenDepth {
		return fmt.Errorf("%w (depth %d)", ErrTooDeep, depth)
	}
	for _, key := range obj.Keys() {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		v, _ := obj.Get(key)
		if child, ok := v.(*Obj); ok {
			if err := flattenInto(flat, columns, seen, name, child, depth+1); err != nil {
				return err
			}
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = len(*columns)
			*columns = append(*columns, name)
		}
		flat[name] = Stringify(v)
	}
	return nil
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// WriteCSV writes the table as RFC 4180 CSV, header row first.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the table to path. The conventional export name for a
// lookup is CSVFileName(uniqueID).
func (t Table) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CSVFileName returns the export file name for a lookup identifier.
func CSVFileName(uniqueID string) string {
	return "shipment_" + uniqueID + ".csv"
}
