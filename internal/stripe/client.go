// Package stripe defines the interface for Stripe API calls and webhook
// verification, and classifies verified events into the billing notices the
// notify package acts on.
package stripe

import (
	"context"
	"encoding/json"
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Event is a parsed Stripe webhook event. DataRaw contains the raw JSON of the
// event's data.object so classification can unmarshal only what it needs.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

// ─── CLIENT INTERFACE ─────────────────────────────────────────────────────────

// Client is the interface the api and notify packages use for all Stripe
// calls. The concrete implementation wraps the official stripe-go SDK.
// Tests inject a stub.
type Client interface {
	// VerifyWebhook validates the Stripe-Signature header and returns the
	// parsed event. Returns an error if the signature is invalid or expired.
	// payload must be the exact raw bytes as received — any re-encoding
	// breaks the signature.
	VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error)

	// GetCustomerEmail retrieves the email address on file for a Stripe
	// customer. Returns an empty string (no error) when the customer exists
	// but has no email.
	GetCustomerEmail(ctx context.Context, customerID string) (string, error)

	// CreatePortalSession creates a billing-portal session for the customer
	// and returns its URL. Used for the payment-failed call-to-action.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}
