package stripe_test

import (
	"encoding/json"
	"reflect"
	"testing"

	stripeinternal "github.com/yokweb/billing-notifier/internal/stripe"
)

func makeEvent(t *testing.T, eventType string, obj map[string]any) stripeinternal.Event {
	t.Helper()
	raw, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return stripeinternal.Event{
		ID:      "evt_test",
		Type:    eventType,
		DataRaw: json.RawMessage(raw),
	}
}

// ─── KIND MAPPING ─────────────────────────────────────────────────────────────

func TestClassify_KindMapping(t *testing.T) {
	cases := []struct {
		eventType string
		payload   map[string]any
		want      stripeinternal.Kind
	}{
		{
			"invoice.finalized",
			map[string]any{"hosted_invoice_url": "https://pay.stripe.com/i/abc", "number": "INV-001"},
			stripeinternal.KindInvoiceFinalized,
		},
		{"invoice.paid", map[string]any{"amount_paid": 5000, "currency": "eur"}, stripeinternal.KindInvoicePaid},
		{"invoice.payment_failed", map[string]any{"customer": "cus_123"}, stripeinternal.KindInvoicePaymentFailed},
		{"invoice.upcoming", map[string]any{"amount_due": 900, "next_payment_attempt": 1764547200}, stripeinternal.KindInvoiceUpcoming},
		{"customer.subscription.trial_will_end", map[string]any{"trial_end": 1764547200}, stripeinternal.KindTrialWillEnd},
		{"charge.dispute.created", map[string]any{"id": "dp_123"}, stripeinternal.KindUnhandled},
		{"customer.created", map[string]any{}, stripeinternal.KindUnhandled},
	}

	for _, tc := range cases {
		notice := stripeinternal.Classify(makeEvent(t, tc.eventType, tc.payload))
		if notice.Kind != tc.want {
			t.Errorf("%s: expected kind %q, got %q", tc.eventType, tc.want, notice.Kind)
		}
	}
}

// ─── FIELD EXTRACTION ─────────────────────────────────────────────────────────

func TestClassify_FinalizedExtractsInvoiceFields(t *testing.T) {
	notice := stripeinternal.Classify(makeEvent(t, "invoice.finalized", map[string]any{
		"hosted_invoice_url": "https://pay.stripe.com/i/abc",
		"number":             "INV-001",
		"amount_due":         12345,
		"currency":           "usd",
		"customer":           "cus_123",
		"customer_email":     "a@b.com",
	}))

	if notice.Kind != stripeinternal.KindInvoiceFinalized {
		t.Fatalf("unexpected kind %q", notice.Kind)
	}
	if notice.Invoice == nil {
		t.Fatal("expected invoice fields")
	}
	if notice.Invoice.HostedURL != "https://pay.stripe.com/i/abc" {
		t.Errorf("hosted URL: got %q", notice.Invoice.HostedURL)
	}
	if notice.Invoice.Number != "INV-001" {
		t.Errorf("number: got %q", notice.Invoice.Number)
	}
	if notice.Invoice.AmountDue != 12345 {
		t.Errorf("amount_due: got %d", notice.Invoice.AmountDue)
	}
	if notice.Invoice.Currency != "usd" {
		t.Errorf("currency: got %q", notice.Invoice.Currency)
	}
	if notice.Email != "a@b.com" {
		t.Errorf("email: got %q", notice.Email)
	}
	if notice.Customer != "cus_123" {
		t.Errorf("customer: got %q", notice.Customer)
	}
}

func TestClassify_FinalizedWithoutHostedURLIsUnhandled(t *testing.T) {
	notice := stripeinternal.Classify(makeEvent(t, "invoice.finalized", map[string]any{
		"number":     "INV-001",
		"amount_due": 12345,
	}))
	if notice.Kind != stripeinternal.KindUnhandled {
		t.Errorf("expected unhandled, got %q", notice.Kind)
	}
	if notice.Invoice != nil {
		t.Error("expected no invoice fields on unhandled notice")
	}
}

func TestClassify_FinalizedWithoutNumberIsUnhandled(t *testing.T) {
	notice := stripeinternal.Classify(makeEvent(t, "invoice.finalized", map[string]any{
		"hosted_invoice_url": "https://pay.stripe.com/i/abc",
	}))
	if notice.Kind != stripeinternal.KindUnhandled {
		t.Errorf("expected unhandled, got %q", notice.Kind)
	}
}

func TestClassify_UpcomingWithoutNextAttemptIsUnhandled(t *testing.T) {
	notice := stripeinternal.Classify(makeEvent(t, "invoice.upcoming", map[string]any{
		"amount_due": 900,
		"currency":   "usd",
	}))
	if notice.Kind != stripeinternal.KindUnhandled {
		t.Errorf("expected unhandled, got %q", notice.Kind)
	}
}

func TestClassify_TrialExtractsTrialEnd(t *testing.T) {
	notice := stripeinternal.Classify(makeEvent(t, "customer.subscription.trial_will_end", map[string]any{
		"trial_end": 1764547200,
		"customer":  "cus_987",
	}))
	if notice.Kind != stripeinternal.KindTrialWillEnd {
		t.Fatalf("unexpected kind %q", notice.Kind)
	}
	if notice.Trial == nil || notice.Trial.End != 1764547200 {
		t.Errorf("trial end: got %+v", notice.Trial)
	}
	if notice.Customer != "cus_987" {
		t.Errorf("customer: got %q", notice.Customer)
	}
}

func TestClassify_TrialWithoutTrialEndIsUnhandled(t *testing.T) {
	notice := stripeinternal.Classify(makeEvent(t, "customer.subscription.trial_will_end", map[string]any{
		"customer": "cus_987",
	}))
	if notice.Kind != stripeinternal.KindUnhandled {
		t.Errorf("expected unhandled, got %q", notice.Kind)
	}
}

func TestClassify_MalformedPayloadIsUnhandled(t *testing.T) {
	event := stripeinternal.Event{
		ID:      "evt_bad",
		Type:    "invoice.paid",
		DataRaw: json.RawMessage(`{bad json`),
	}
	notice := stripeinternal.Classify(event)
	if notice.Kind != stripeinternal.KindUnhandled {
		t.Errorf("expected unhandled for malformed payload, got %q", notice.Kind)
	}
}

// ─── PURITY ───────────────────────────────────────────────────────────────────

func TestClassify_IsDeterministic(t *testing.T) {
	event := makeEvent(t, "invoice.paid", map[string]any{
		"amount_paid":    5000,
		"currency":       "eur",
		"customer_email": "a@b.com",
	})

	first := stripeinternal.Classify(event)
	second := stripeinternal.Classify(event)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
