package stripe

import "encoding/json"

// ─── EVENT KINDS ──────────────────────────────────────────────────────────────

// Kind is the classified type of an inbound billing event. Every event maps
// to exactly one kind; anything the service does not act on is KindUnhandled.
type Kind string

const (
	KindInvoiceFinalized     Kind = "invoice_finalized"
	KindInvoicePaid          Kind = "invoice_paid"
	KindInvoicePaymentFailed Kind = "invoice_payment_failed"
	KindInvoiceUpcoming      Kind = "invoice_upcoming"
	KindTrialWillEnd         Kind = "trial_will_end"
	KindUnhandled            Kind = "unhandled"
)

// ─── NOTICE ───────────────────────────────────────────────────────────────────

// Invoice carries the fields extracted from an invoice.* event's data.object.
// Only the fields the classified kind requires are meaningful.
type Invoice struct {
	HostedURL   string // hosted_invoice_url — finalized only
	Number      string // invoice number — finalized only
	Currency    string
	AmountDue   int64 // minor units — finalized, upcoming
	AmountPaid  int64 // minor units — paid
	NextAttempt int64 // unix seconds — upcoming
}

// Trial carries the fields extracted from a trial_will_end subscription.
type Trial struct {
	End int64 // unix seconds
}

// Notice is the classification result handed to the dispatch engine. It is
// immutable once constructed: one Notice per verified inbound event.
type Notice struct {
	EventID   string
	EventType string // the declared type string, kept for logging
	Kind      Kind

	// Email is the customer_email embedded in the payload, when present.
	// Customer is the customer reference for the secondary directory lookup.
	Email    string
	Customer string

	Invoice *Invoice // set for invoice kinds
	Trial   *Trial   // set for KindTrialWillEnd
}

// ─── CLASSIFICATION ───────────────────────────────────────────────────────────

// invoiceObject is the subset of a Stripe invoice the templates need.
type invoiceObject struct {
	HostedInvoiceURL   string `json:"hosted_invoice_url"`
	Number             string `json:"number"`
	Currency           string `json:"currency"`
	AmountDue          int64  `json:"amount_due"`
	AmountPaid         int64  `json:"amount_paid"`
	NextPaymentAttempt int64  `json:"next_payment_attempt"`
	Customer           string `json:"customer"`
	CustomerEmail      string `json:"customer_email"`
}

// subscriptionObject is the subset of a subscription used for trial events.
type subscriptionObject struct {
	TrialEnd      int64  `json:"trial_end"`
	Customer      string `json:"customer"`
	CustomerEmail string `json:"customer_email"`
}

// Classify maps a verified event onto a Notice. It is pure: no network calls,
// no logging, same event in → same Notice out.
//
// Events whose required fields are absent classify as KindUnhandled rather
// than producing a Notice the dispatch engine cannot render: a finalized
// invoice without a hosted URL or number, an upcoming invoice without a
// next-attempt timestamp, or a trial event without trial_end carry nothing
// to email about. Unknown type strings also classify as KindUnhandled.
func Classify(ev Event) Notice {
	n := Notice{
		EventID:   ev.ID,
		EventType: ev.Type,
		Kind:      KindUnhandled,
	}

	switch ev.Type {
	case "invoice.finalized", "invoice.paid", "invoice.payment_failed", "invoice.upcoming":
		var obj invoiceObject
		if err := json.Unmarshal(ev.DataRaw, &obj); err != nil {
			return n
		}
		n.Email = obj.CustomerEmail
		n.Customer = obj.Customer
		n.Invoice = &Invoice{
			HostedURL:   obj.HostedInvoiceURL,
			Number:      obj.Number,
			Currency:    obj.Currency,
			AmountDue:   obj.AmountDue,
			AmountPaid:  obj.AmountPaid,
			NextAttempt: obj.NextPaymentAttempt,
		}

		switch ev.Type {
		case "invoice.finalized":
			if obj.HostedInvoiceURL == "" || obj.Number == "" {
				n.Invoice = nil
				return n
			}
			n.Kind = KindInvoiceFinalized
		case "invoice.paid":
			n.Kind = KindInvoicePaid
		case "invoice.payment_failed":
			n.Kind = KindInvoicePaymentFailed
		case "invoice.upcoming":
			if obj.NextPaymentAttempt == 0 {
				n.Invoice = nil
				return n
			}
			n.Kind = KindInvoiceUpcoming
		}

	case "customer.subscription.trial_will_end":
		var obj subscriptionObject
		if err := json.Unmarshal(ev.DataRaw, &obj); err != nil {
			return n
		}
		if obj.TrialEnd == 0 {
			return n
		}
		n.Email = obj.CustomerEmail
		n.Customer = obj.Customer
		n.Trial = &Trial{End: obj.TrialEnd}
		n.Kind = KindTrialWillEnd
	}

	return n
}
