// Package notify implements the template & dispatch engine: given a
// classified billing notice it resolves the recipient, renders the HTML
// body, and submits one message to the mail channel. Every failure past
// signature verification is owned here — logged, counted, and swallowed —
// because the webhook caller has already been acknowledged.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yokweb/billing-notifier/internal/email"
	"github.com/yokweb/billing-notifier/internal/metrics"
	"github.com/yokweb/billing-notifier/internal/stripe"
)

// Notifier is the dispatch engine. Construct with New; safe for concurrent
// use — it holds no per-notice state.
type Notifier struct {
	stripe   stripe.Client
	mailer   email.Sender
	branding email.Branding
	logger   *slog.Logger
}

// New constructs a Notifier. branding.AccountURL doubles as the return URL
// for billing-portal sessions.
func New(stripeClient stripe.Client, mailer email.Sender, branding email.Branding, logger *slog.Logger) *Notifier {
	return &Notifier{
		stripe:   stripeClient,
		mailer:   mailer,
		branding: branding,
		logger:   logger,
	}
}

// Process handles one classified notice end to end. It never returns an
// error: downstream failures must not propagate to the HTTP layer or crash
// the worker, so they terminate here as log lines and counters.
func (n *Notifier) Process(ctx context.Context, notice stripe.Notice) {
	log := n.logger.With("event_id", notice.EventID, "kind", string(notice.Kind))

	if notice.Kind == stripe.KindUnhandled {
		log.Debug("notify: unhandled event type", "type", notice.EventType)
		return
	}

	// ── Recipient resolution ──────────────────────────────────────────────────
	// Use the address on the payload when present; otherwise fall back to the
	// customer directory. An unresolvable recipient is a skip, not an error.
	to, err := n.resolveRecipient(ctx, notice)
	if err != nil {
		log.Error("notify: customer lookup failed", "customer", notice.Customer, "error", err)
		return
	}
	if to == "" {
		log.Warn("notify: no customer email available, skipping")
		metrics.RecipientMissing.Inc()
		return
	}

	// ── Composition ───────────────────────────────────────────────────────────
	subject, html, err := n.compose(ctx, notice)
	if err != nil {
		log.Error("notify: compose failed", "error", err)
		return
	}

	// ── Dispatch ──────────────────────────────────────────────────────────────
	msg := email.Message{To: to, Subject: subject, HTML: html}
	if err := n.mailer.Send(ctx, msg); err != nil {
		// At-most-once, best-effort: no retry.
		log.Error("notify: email send failed", "to", to, "error", err)
		metrics.EmailFailures.WithLabelValues(string(notice.Kind)).Inc()
		return
	}

	log.Info("notify: email sent", "to", to, "subject", subject)
	metrics.EmailsSent.WithLabelValues(string(notice.Kind)).Inc()
}

// resolveRecipient returns the address to send to, or "" when neither the
// payload nor the customer directory yields one.
func (n *Notifier) resolveRecipient(ctx context.Context, notice stripe.Notice) (string, error) {
	if notice.Email != "" {
		return notice.Email, nil
	}
	if notice.Customer == "" {
		return "", nil
	}
	return n.stripe.GetCustomerEmail(ctx, notice.Customer)
}

// compose builds the subject line and HTML body for the notice. It is pure
// for every kind except payment-failed, which creates a billing-portal
// session for the call-to-action link.
func (n *Notifier) compose(ctx context.Context, notice stripe.Notice) (subject, html string, err error) {
	b := n.branding

	switch notice.Kind {
	case stripe.KindInvoiceFinalized:
		inv := notice.Invoice
		amount := email.FormatAmount(inv.AmountDue, inv.Currency)
		subject = fmt.Sprintf("Invoice %s from %s is Due", inv.Number, b.Name)
		html = email.FinalizedInvoiceHTML(b, inv.HostedURL, inv.Number, amount)

	case stripe.KindInvoicePaid:
		inv := notice.Invoice
		amount := email.FormatAmount(inv.AmountPaid, inv.Currency)
		subject = "Payment Received - Thank You"
		html = email.PaymentReceivedHTML(b, amount)

	case stripe.KindInvoicePaymentFailed:
		portalURL, sessErr := n.stripe.CreatePortalSession(ctx, notice.Customer, b.AccountURL)
		if sessErr != nil {
			return "", "", fmt.Errorf("create portal session: %w", sessErr)
		}
		subject = "Action Required: Payment Failed"
		html = email.PaymentFailedHTML(b, portalURL)

	case stripe.KindInvoiceUpcoming:
		inv := notice.Invoice
		amount := email.FormatAmount(inv.AmountDue, inv.Currency)
		date := email.FormatDate(inv.NextAttempt)
		subject = "Upcoming Renewal Reminder"
		html = email.RenewalReminderHTML(b, amount, date)

	case stripe.KindTrialWillEnd:
		date := email.FormatDate(notice.Trial.End)
		subject = "Trial Ending Soon"
		html = email.TrialEndingHTML(b, date)

	default:
		return "", "", fmt.Errorf("no template for kind %q", notice.Kind)
	}

	return subject, html, nil
}
