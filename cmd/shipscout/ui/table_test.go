package ui

import (
	"strings"
	"testing"
)

func TestTableView(t *testing.T) {
	table := NewTable("Flattened table", "id", "status")
	table.AddRow("1", "shipped")
	table.AddRow("2", "packing")

	styles := DefaultStyles()
	view := table.View(styles)

	t.Logf("View:\n%q", view)

	if !strings.Contains(view, "Flattened table") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "shipped") {
		t.Error("View missing cell content")
	}
	if !strings.Contains(view, "status") {
		t.Error("View missing header")
	}
}

func TestTableViewEmpty(t *testing.T) {
	table := NewFieldTable("Shipment")
	if view := table.View(DefaultStyles()); view != "" {
		t.Errorf("empty table must render nothing, got %q", view)
	}
}

func TestFieldTableHeaders(t *testing.T) {
	table := NewFieldTable("Order")
	if len(table.Headers) != 2 || table.Headers[0] != "Field" || table.Headers[1] != "Value" {
		t.Errorf("unexpected headers: %v", table.Headers)
	}
}

func TestTableCellTruncation(t *testing.T) {
	table := NewTable("", "v")
	table.MaxCellWidth = 10
	long := strings.Repeat("x", 40)
	table.AddRow(long)

	view := table.View(DefaultStyles())
	if strings.Contains(view, long) {
		t.Error("cell was not truncated")
	}
	if !strings.Contains(view, "…") {
		t.Error("truncated cell missing ellipsis")
	}
}
