// Package email defines the interface for transactional email delivery and
// provides Gmail API and SMTP implementations, plus the HTML templates for
// every billing notice kind.
package email

import "context"

// Message is a fully composed outbound email. The body is HTML; every
// provider sends it with Content-Type: text/html; charset=utf-8.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender is the interface the dispatch engine uses to submit mail.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Branding holds the presentation values threaded through every template:
// who the mail is from and where its calls-to-action point.
type Branding struct {
	Name       string // e.g. "Yokweb" — appears in subjects and footer copy
	LogoURL    string // header image
	AccountURL string // "Visit Your Account" / "Manage Account" CTA
	PricingURL string // "Upgrade Now" CTA on trial-ending mail
}
