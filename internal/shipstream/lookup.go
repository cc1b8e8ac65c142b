package shipstream

import (
	"context"
	"errors"
	"strings"

	"shipscout/internal/logging"
)

// Sentinel errors surfaced inline by the UI before any network work.
var (
	ErrEmptyIdentifier = errors.New("enter a unique_id to look up")
	ErrMissingToken    = errors.New("no auth token configured")
)

// Report is everything one lookup produced. Entities are request-scoped:
// built fresh per query, read once for display, then discarded.
type Report struct {
	UniqueID   string
	URL        string
	StatusCode int
	Body       []byte

	// Payload is the parsed body, or the body text when it was not JSON.
	Payload any

	// APIError marks a status >= 400: entity sections are skipped but the
	// raw body still renders so the user can diagnose.
	APIError bool

	Shipment *Obj
	Order    *Obj
	Merchant *Obj

	Flattened Table
	// FlattenWarning is a soft failure: the flattened section is dropped,
	// everything else renders.
	FlattenWarning string
}

// Lookup runs the full pipeline for one identifier: validate, fetch,
// parse, extract, flatten. Only validation and transport failures return
// an error; everything the server answered becomes a Report.
func Lookup(ctx context.Context, client *Client, uniqueID string, expandOrder bool) (*Report, error) {
	uniqueID = strings.TrimSpace(uniqueID)
	if uniqueID == "" {
		return nil, ErrEmptyIdentifier
	}
	if strings.TrimSpace(client.token) == "" {
		return nil, ErrMissingToken
	}

	res, err := client.Fetch(ctx, uniqueID, expandOrder)
	if err != nil {
		return nil, err
	}

	report := &Report{
		UniqueID:   uniqueID,
		URL:        res.URL,
		StatusCode: res.StatusCode,
		Body:       res.Body,
		Payload:    ParseBody(res.Body),
	}

	if res.StatusCode >= 400 {
		report.APIError = true
		return report, nil
	}

	report.Shipment = FirstShipment(report.Payload)
	report.Order = RelatedOrder(report.Shipment)
	report.Merchant = RelatedMerchant(report.Order)
	if report.Shipment == nil {
		logging.API("no shipment in collection for unique_id=%s", uniqueID)
	}

	table, err := Flatten(report.Payload)
	if err != nil {
		report.FlattenWarning = "could not flatten payload: " + err.Error()
	} else {
		report.Flattened = table
	}
	return report, nil
}

// RawText renders the raw body for display: pretty JSON when the body
// parsed, readable text for HTML error pages, the body verbatim otherwise.
func (r *Report) RawText() string {
	if s, ok := r.Payload.(string); ok {
		if LooksLikeHTML(s) {
			return HTMLToText(s)
		}
		return s
	}
	return PrettyJSON(r.Payload)
}

// RawIsJSON reports whether the body parsed as JSON.
func (r *Report) RawIsJSON() bool {
	_, notJSON := r.Payload.(string)
	return !notJSON
}
