package shipstream

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParse decodes a JSON literal for test fixtures.
func mustParse(t *testing.T, raw string) any {
	t.Helper()
	v := ParseBody([]byte(raw))
	if _, isText := v.(string); isText {
		t.Fatalf("fixture did not parse as JSON: %s", raw)
	}
	return v
}

func mustObj(t *testing.T, raw string) *Obj {
	t.Helper()
	o, ok := mustParse(t, raw).(*Obj)
	require.True(t, ok, "fixture is not an object: %s", raw)
	return o
}

func TestParseBodyRoundTrip(t *testing.T) {
	src := []byte(`{"collection":[{"id":1,"unique_id":"5900008555","weights":{"value":2,"unit":"kg"}}],"total":1}`)

	payload := ParseBody(src)
	obj, ok := payload.(*Obj)
	require.True(t, ok)

	got, err := json.Marshal(obj)
	require.NoError(t, err)

	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, src))
	assert.Equal(t, compact.String(), string(got), "re-encoding must preserve key order and number literals")
}

func TestParseBodyInvalidJSON(t *testing.T) {
	for _, raw := range []string{
		"<html><body>502 Bad Gateway</body></html>",
		"plain text error",
		`{"truncated":`,
		`{"a":1} trailing`,
	} {
		got := ParseBody([]byte(raw))
		assert.Equal(t, raw, got, "invalid JSON must come back as the original text")
	}
}

func TestParseBodyScalarAndList(t *testing.T) {
	assert.Equal(t, json.Number("42"), ParseBody([]byte("42")))

	list, ok := ParseBody([]byte(`[1,2]`)).([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestFirstShipment(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		s := FirstShipment(mustParse(t, `{"collection":[{"id":1}]}`))
		require.NotNil(t, s)
		v, _ := s.Get("id")
		assert.Equal(t, json.Number("1"), v)
	})

	for name, raw := range map[string]string{
		"empty collection":  `{"collection":[]}`,
		"collection scalar": `{"collection":"oops"}`,
		"payload list":      `[1,2]`,
		"first not object":  `{"collection":[42]}`,
		"no collection":     `{"data":[{"id":1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, FirstShipment(mustParse(t, raw)))
		})
	}

	t.Run("payload not JSON", func(t *testing.T) {
		assert.Nil(t, FirstShipment("plain text"))
	})
}

func TestRelatedRecords(t *testing.T) {
	shipment := mustObj(t, `{"id":1,"order":{"id":9,"merchant":{"type":"retail","id":77}}}`)

	order := RelatedOrder(shipment)
	require.NotNil(t, order)
	merchant := RelatedMerchant(order)
	require.NotNil(t, merchant)

	v, _ := merchant.Get("id")
	assert.Equal(t, json.Number("77"), v)
}

func TestRelatedRecordsDegrade(t *testing.T) {
	assert.Nil(t, RelatedOrder(nil))
	assert.Nil(t, RelatedOrder(mustObj(t, `{"order":"not-an-object"}`)))
	assert.Nil(t, RelatedOrder(mustObj(t, `{"id":1}`)))
	assert.Nil(t, RelatedMerchant(nil))
	assert.Nil(t, RelatedMerchant(mustObj(t, `{"merchant":[1,2]}`)))
}

func TestObjKeyOrder(t *testing.T) {
	o := mustObj(t, `{"zeta":1,"alpha":2,"mid":3}`)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, o.Keys())
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "x", Stringify("x"))
	assert.Equal(t, "5900008555", Stringify(json.Number("5900008555")))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "false", Stringify(false))
	assert.Equal(t, `[1,2]`, Stringify(mustParse(t, `[1,2]`)))
	assert.Equal(t, `{"a":1}`, Stringify(mustParse(t, `{"a":1}`)))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "not json", PrettyJSON("not json"))

	out := PrettyJSON(mustParse(t, `{"b":1,"a":2}`))
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}", out, "pretty output keeps document key order")
}
