package shipstream

import (
	"strconv"
	"strings"
)

// Row is one labeled value in an entity section. Sections are ordered
// slices, never maps: the display order is part of the contract.
type Row struct {
	Label string
	Value string
}

// FormatWeight renders a weight field. Weights arrive as {value, unit}
// objects; both sub-fields may be empty, in which case the row renders
// empty rather than a literal null marker. Non-object weights render their
// string form.
func FormatWeight(w any) string {
	switch t := w.(type) {
	case nil:
		return ""
	case *Obj:
		value, _ := t.Get("value")
		unit, _ := t.Get("unit")
		return strings.TrimSpace(Stringify(value) + " " + Stringify(unit))
	default:
		return Stringify(w)
	}
}

// CountOf renders the length of a list field. Absent fields count as zero;
// a present non-list value renders as-is instead of failing.
func CountOf(x any) string {
	switch t := x.(type) {
	case nil:
		return "0"
	case []any:
		return strconv.Itoa(len(t))
	default:
		return Stringify(x)
	}
}

// field renders the string form of a direct field of o, empty when absent.
func field(o *Obj, key string) string {
	v, _ := o.Get(key)
	return Stringify(v)
}

// nestedField renders o[outer][inner] when o[outer] is an object.
func nestedField(o *Obj, outer, inner string) string {
	return field(o.Child(outer), inner)
}

// ShipmentRows builds the Shipment section. The row set and order are
// fixed; absent fields render as empty values so the section keeps its
// shape regardless of what the API returned. The "order link" row is the
// one conditional: it appears only when the shipment carries a links.order
// entry.
func ShipmentRows(s *Obj) []Row {
	weight := func(key string) string {
		v, _ := s.Get(key)
		return FormatWeight(v)
	}
	count := func(key string) string {
		v, _ := s.Get(key)
		return CountOf(v)
	}

	rows := []Row{
		{"Shipment ID", field(s, "id")},
		{"unique_id", field(s, "unique_id")},
		{"status", field(s, "status")},
		{"warehouse_id", nestedField(s, "warehouse", "id")},
		{"shipping_method (shipment)", field(s, "shipping_method")},
		{"target_ship_date", field(s, "target_ship_date")},
		{"total_weight", weight("total_weight")},
		{"total_item_weight", weight("total_item_weight")},
		{"shipped_weight", weight("shipped_weight")},
		{"items_count", count("items")},
		{"packages_count", count("packages")},
	}

	if links := s.Child("links"); links != nil {
		if link, ok := links.Get("order"); ok {
			rows = append(rows, Row{"order link", Stringify(link)})
		}
	}
	return rows
}

// OrderRows builds the Order section: fixed rows first, then merchant_id
// and brand_id only when they carry a value.
func OrderRows(o *Obj) []Row {
	count := func(key string) string {
		v, _ := o.Get(key)
		return CountOf(v)
	}

	rows := []Row{
		{"Order ID", field(o, "id")},
		{"order unique_id", field(o, "unique_id")},
		{"order_ref", field(o, "order_ref")},
		{"state", field(o, "state")},
		{"status", field(o, "status")},
		{"carrier_code", field(o, "carrier_code")},
		{"shipping_method (order)", field(o, "shipping_method")},
		{"priority", field(o, "priority")},
		{"signature_required", field(o, "signature_required")},
		{"is_saturday_delivery", field(o, "is_saturday_delivery")},
		{"is_overbox_required", field(o, "is_overbox_required")},
		{"is_declared_value_service", field(o, "is_declared_value_service")},
		{"declared_value", field(o, "declared_value")},
		{"items_count", count("items")},
		{"shipments_count", count("shipments")},
	}

	if merchantID := nestedField(o, "merchant", "id"); merchantID != "" {
		rows = append(rows, Row{"merchant_id", merchantID})
	}
	if brandID := field(o, "brand_id"); brandID != "" {
		rows = append(rows, Row{"brand_id", brandID})
	}
	return rows
}

// merchantFixedKeys are emitted first and skipped during the dynamic sweep.
var merchantFixedKeys = map[string]bool{"type": true, "id": true}

// MerchantRows builds the Merchant section. Merchants have an open field
// set, so after the fixed type/id rows every remaining key is emitted in
// document order with a humanized label.
func MerchantRows(m *Obj) []Row {
	rows := []Row{
		{"Type", field(m, "type")},
		{"Merchant ID", field(m, "id")},
	}
	for _, key := range m.Keys() {
		if merchantFixedKeys[key] {
			continue
		}
		v, _ := m.Get(key)
		rows = append(rows, Row{humanizeLabel(key), Stringify(v)})
	}
	return rows
}

// humanizeLabel turns a snake_case or kebab-case key into a display label:
// separators become spaces and each word is title-cased.
func humanizeLabel(key string) string {
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
