package email_test

import (
	"strings"
	"testing"
	"time"

	"github.com/yokweb/billing-notifier/internal/email"
)

var testBranding = email.Branding{
	Name:       "Yokweb",
	LogoURL:    "https://yokweb.com/yokweb-logo.png",
	AccountURL: "https://yokweb.com/account",
	PricingURL: "https://yokweb.com/pricing",
}

// ─── FORMATTING ───────────────────────────────────────────────────────────────

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   int64
		currency string
		want     string
	}{
		{12345, "usd", "123.45 USD"},
		{5000, "eur", "50.00 EUR"},
		{1, "gbp", "0.01 GBP"},
		{0, "usd", "0.00 USD"},
		{100000, "JPY", "1000.00 JPY"},
	}

	for _, tc := range cases {
		if got := email.FormatAmount(tc.amount, tc.currency); got != tc.want {
			t.Errorf("FormatAmount(%d, %q): expected %q, got %q", tc.amount, tc.currency, tc.want, got)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC).Unix()
	if got := email.FormatDate(ts); got != "March 1, 2026" {
		t.Errorf("expected %q, got %q", "March 1, 2026", got)
	}
}

// ─── TEMPLATES ────────────────────────────────────────────────────────────────

func TestFinalizedInvoiceHTML(t *testing.T) {
	html := email.FinalizedInvoiceHTML(testBranding, "https://pay.stripe.com/i/abc", "INV-001", "123.45 USD")

	for _, want := range []string{
		"INV-001",
		"123.45 USD",
		`href="https://pay.stripe.com/i/abc"`,
		testBranding.LogoURL,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("finalized invoice body missing %q", want)
		}
	}
}

func TestPaymentReceivedHTML(t *testing.T) {
	html := email.PaymentReceivedHTML(testBranding, "50.00 EUR")

	if !strings.Contains(html, "50.00 EUR") {
		t.Error("payment received body missing amount")
	}
	if !strings.Contains(html, `href="https://yokweb.com/account"`) {
		t.Error("payment received body missing account link")
	}
}

func TestPaymentFailedHTML_CTAIsPortalURL(t *testing.T) {
	portalURL := "https://billing.stripe.com/p/session/xyz"
	html := email.PaymentFailedHTML(testBranding, portalURL)

	if !strings.Contains(html, `href="`+portalURL+`"`) {
		t.Errorf("payment failed CTA should link to the portal session, got:\n%s", html)
	}
}

func TestRenewalReminderHTML(t *testing.T) {
	html := email.RenewalReminderHTML(testBranding, "9.00 USD", "March 1, 2026")

	if !strings.Contains(html, "9.00 USD") {
		t.Error("renewal reminder body missing amount")
	}
	if !strings.Contains(html, "March 1, 2026") {
		t.Error("renewal reminder body missing renewal date")
	}
}

func TestTrialEndingHTML(t *testing.T) {
	html := email.TrialEndingHTML(testBranding, "March 1, 2026")

	if !strings.Contains(html, "March 1, 2026") {
		t.Error("trial ending body missing end date")
	}
	if !strings.Contains(html, `href="https://yokweb.com/pricing"`) {
		t.Error("trial ending body missing pricing link")
	}
}

// Templates are pure functions: identical inputs must render identical HTML.
func TestTemplates_AreDeterministic(t *testing.T) {
	cases := map[string]func() string{
		"finalized": func() string {
			return email.FinalizedInvoiceHTML(testBranding, "https://pay.stripe.com/i/abc", "INV-001", "123.45 USD")
		},
		"received": func() string { return email.PaymentReceivedHTML(testBranding, "50.00 EUR") },
		"failed":   func() string { return email.PaymentFailedHTML(testBranding, "https://billing.stripe.com/p/x") },
		"renewal":  func() string { return email.RenewalReminderHTML(testBranding, "9.00 USD", "March 1, 2026") },
		"trial":    func() string { return email.TrialEndingHTML(testBranding, "March 1, 2026") },
	}

	for name, render := range cases {
		if render() != render() {
			t.Errorf("%s template is not deterministic", name)
		}
	}
}
