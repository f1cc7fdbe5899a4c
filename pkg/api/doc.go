// Package api is the transport layer of the Polyteia SDK. It sends command
// and query envelopes to the platform's single command endpoint and funnels
// every response through one validator.
//
// # Command Envelope
//
// All platform operations share one endpoint (POST /api) and one body shape:
//
//	{"command": "create_dataset", "params": {...}}   // mutations
//	{"query":   "get_dataset",    "params": {...}}   // reads
//
// # Response Validation
//
// ValidateResponse applies three checks in order and fails on the first one
// that does not hold:
//
//  1. the body parses as JSON, else *ParseError (errors.Is ErrInvalidJSON)
//  2. the status is in the expected set (200 and 201 by default), else
//     *StatusError (errors.Is ErrUnexpectedStatus)
//  3. every required dotted key path ("data.id") resolves, else
//     *MissingKeyError (errors.Is ErrMissingKey)
//
// Every error message carries the operation label, the failing detail and the
// raw response body.
//
// On success the parsed body is returned as a Document with typed accessors:
//
//	doc, err := client.Command(ctx, token, "create_tag", params, api.ValidateOptions{
//		Context:      "Create tag",
//		RequiredKeys: []string{"data.id"},
//	})
//	id, _ := doc.String("data.id")
//
// # Observability
//
// WithMetrics registers Prometheus counters and histograms labelled by
// operation; WithTracing wraps the transport with otelhttp. Requests are
// logged at debug level through the global zap logger.
package api
