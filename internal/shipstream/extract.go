// Package shipstream implements the shipment lookup core: request building,
// tolerant response extraction, row formatting, and table flattening for the
// ShipStream fulfillment API.
//
// The API surface is not contractually guaranteed, so every extraction
// degrades to "nothing to show" on a shape mismatch instead of failing.
package shipstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Obj is a JSON object that remembers the key order of the document it was
// decoded from. The merchant section and the flattened table both emit
// fields in document order, which a plain map cannot provide.
type Obj struct {
	keys []string
	vals map[string]any
}

// NewObj returns an empty object.
func NewObj() *Obj {
	return &Obj{vals: make(map[string]any)}
}

// Set adds or replaces a key. New keys are appended to the order.
func (o *Obj) Set(key string, val any) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

// Get returns the value for key and whether it was present.
// A nil receiver reports absent, so callers can chain lookups.
func (o *Obj) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns the keys in document order.
func (o *Obj) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of keys.
func (o *Obj) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Child returns the value under key only if it is itself an object.
func (o *Obj) Child(key string) *Obj {
	v, _ := o.Get(key)
	child, _ := v.(*Obj)
	return child
}

// MarshalJSON writes the object back in document order, so a decoded
// payload re-encodes byte-comparable to its source.
func (o *Obj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeValue reads one JSON value from dec. Objects become *Obj, arrays
// []any, numbers json.Number (keeping the exact literal for display).
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFrom(dec, tok)
}

func decodeFrom(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObj()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	default:
		// string, json.Number, bool, nil
		return tok, nil
	}
}

// ParseBody decodes raw as JSON, preserving object key order. Invalid JSON
// is returned as the original text, never as an error: gateway error pages
// and plain-text bodies flow through to the raw display unchanged.
func ParseBody(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	val, err := decodeValue(dec)
	if err != nil {
		return string(raw)
	}
	// Trailing garbage after the value also disqualifies the body as JSON.
	if _, err := dec.Token(); err != io.EOF {
		return string(raw)
	}
	return val
}

// FirstShipment returns the first element of payload's "collection" list,
// provided payload is an object, collection is a non-empty list, and the
// first element is an object. Any other shape yields nil.
func FirstShipment(payload any) *Obj {
	env, ok := payload.(*Obj)
	if !ok {
		return nil
	}
	col, _ := env.Get("collection")
	list, ok := col.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	first, _ := list[0].(*Obj)
	return first
}

// RelatedOrder returns the order object nested in shipment, or nil.
func RelatedOrder(shipment *Obj) *Obj {
	return shipment.Child("order")
}

// RelatedMerchant returns the merchant object nested in order, or nil.
func RelatedMerchant(order *Obj) *Obj {
	return order.Child("merchant")
}

// Stringify renders a decoded JSON value for display. Absent values render
// empty, scalars render their literal form, composites render compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// PrettyJSON renders payload indented for the raw-JSON section. Non-JSON
// payloads (strings from ParseBody's fallback) are returned as-is.
func PrettyJSON(payload any) string {
	if s, ok := payload.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%v", payload))
	}
	return string(b)
}
