package ui

import (
	"fmt"
	"strings"

	"shipscout/internal/shipstream"
)

// flattenedRowCap keeps the on-screen flattened table readable; the CSV
// export always carries every row.
const flattenedRowCap = 50

// RenderReport renders a lookup report as the page's output sections: URL,
// status, entity tables, raw body, and the flattened table. renderRaw
// formats the raw body (the page passes a glamour fenced-block renderer;
// plain output passes nil).
func RenderReport(r *shipstream.Report, styles Styles, renderRaw func(body string, isJSON bool) string) string {
	var sb strings.Builder

	sb.WriteString(styles.Muted.Render("URL used:"))
	sb.WriteString("\n")
	sb.WriteString(styles.Body.Render(r.URL))
	sb.WriteString("\n\n")

	sb.WriteString(styles.Muted.Render("Status code: "))
	sb.WriteString(styles.StatusBadge(r.StatusCode))
	sb.WriteString("\n")

	if r.APIError {
		sb.WriteString("\n")
		sb.WriteString(styles.Error.Render("The API responded with an error."))
		sb.WriteString("\n")
		sb.WriteString(styles.Section.Render("Server response"))
		sb.WriteString("\n")
		sb.WriteString(rawSection(r, styles, renderRaw))
		sb.WriteString("\n")
		return sb.String()
	}

	if r.Shipment == nil {
		sb.WriteString("\n")
		sb.WriteString(styles.Warning.Render("No shipment found in 'collection'."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(entityTable("Shipment", shipstream.ShipmentRows(r.Shipment)).View(styles))
		sb.WriteString(entityTable("Order", shipstream.OrderRows(r.Order)).View(styles))
		if r.Merchant != nil {
			sb.WriteString(entityTable("Merchant", shipstream.MerchantRows(r.Merchant)).View(styles))
		}
	}

	sb.WriteString(styles.Section.Render("Raw JSON"))
	sb.WriteString("\n")
	sb.WriteString(rawSection(r, styles, renderRaw))
	sb.WriteString("\n")

	switch {
	case r.FlattenWarning != "":
		sb.WriteString(styles.Warning.Render(r.FlattenWarning))
		sb.WriteString("\n")
	case !r.Flattened.Empty():
		sb.WriteString(FlattenedTable(r.Flattened).View(styles))
		if n := len(r.Flattened.Rows); n > flattenedRowCap {
			sb.WriteString(styles.Muted.Render(fmt.Sprintf("(%d more rows in the CSV export)", n-flattenedRowCap)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func entityTable(title string, rows []shipstream.Row) *Table {
	t := NewFieldTable(title)
	t.MaxCellWidth = 60
	for _, row := range rows {
		t.AddRow(row.Label, row.Value)
	}
	return t
}

// FlattenedTable converts a flattened core table into a renderable one,
// capped to flattenedRowCap rows.
func FlattenedTable(ft shipstream.Table) *Table {
	t := NewTable("Flattened table", ft.Columns...)
	t.MaxCellWidth = 40
	for i, row := range ft.Rows {
		if i >= flattenedRowCap {
			break
		}
		t.AddRow(row...)
	}
	return t
}

func rawSection(r *shipstream.Report, styles Styles, renderRaw func(string, bool) string) string {
	body := r.RawText()
	if renderRaw != nil {
		return renderRaw(body, r.RawIsJSON())
	}
	return styles.CodeBlock.Render(body)
}
