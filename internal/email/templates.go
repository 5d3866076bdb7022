package email

import (
	"fmt"
	"strings"
	"time"
)

// ─── FORMATTING HELPERS ───────────────────────────────────────────────────────

// FormatAmount renders a Stripe minor-unit amount as a human figure with its
// uppercased currency code: (12345, "usd") → "123.45 USD". Templates always
// receive pre-formatted amount strings, never raw integers.
func FormatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, strings.ToUpper(currency))
}

// FormatDate renders a unix-seconds timestamp as a calendar date, UTC.
func FormatDate(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format("January 2, 2006")
}

// ─── HTML TEMPLATES ───────────────────────────────────────────────────────────
//
// One pure function per notice kind: inputs in, HTML string out. No business
// logic lives here — callers decide whether and to whom a message is sent.

func header(b Branding) string {
	return fmt.Sprintf(`<div style="text-align:center; margin-bottom:20px;">
      <img src="%s" alt="%s Logo" width="120" style="border-radius: 8px;" />
    </div>`, b.LogoURL, b.Name)
}

// FinalizedInvoiceHTML is the body for a newly finalized invoice that is due
// for payment. The CTA links to Stripe's hosted invoice page.
func FinalizedInvoiceHTML(b Branding, invoiceURL, invoiceNumber, amount string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
    %s
    <h2 style="color:#1565c0;">Invoice #%s is Ready</h2>
    <p>Hi,</p>
    <p>Your invoice <strong>#%s</strong> for <strong>%s</strong> has been finalized and is due for payment.</p>
    <p>Please click the button below to view and pay your invoice securely online.</p>
    <div style="margin-top:30px; text-align:center;">
      <a href="%s" style="background:#1565c0; color:#fff; padding:12px 24px; text-decoration:none; border-radius:6px; font-weight:bold;">View &amp; Pay Invoice</a>
    </div>
    <p style="margin-top:20px; font-size: 12px; color: #777;">
      You can also download a PDF copy directly from the hosted page.
    </p>
    <p style="margin-top:20px;">Thank you for your business!</p>
  </div>`, header(b), invoiceNumber, invoiceNumber, amount, invoiceURL)
}

// PaymentReceivedHTML is the body for a paid invoice.
func PaymentReceivedHTML(b Branding, amount string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
    %s
    <h2 style="color:#2e7d32;">Payment Confirmation</h2>
    <p>Hi,</p>
    <p>We&rsquo;ve received your payment of <strong>%s</strong>.</p>
    <p>Thank you for your trust in our services!</p>
    <div style="margin-top:30px; text-align:center;">
      <a href="%s" style="background:#2e7d32; color:#fff; padding:12px 24px; text-decoration:none; border-radius:6px; font-weight:bold;">Visit Your Account</a>
    </div>
  </div>`, header(b), amount, b.AccountURL)
}

// PaymentFailedHTML is the body for a failed payment. updateURL is the
// billing-portal session URL created for this customer.
func PaymentFailedHTML(b Branding, updateURL string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
    %s
    <h2 style="color:#c62828;">Payment Failed</h2>
    <p>Hi,</p>
    <p>Unfortunately, your recent payment attempt was not successful. Your subscription may be interrupted.</p>
    <p>Please update your payment information to continue enjoying our services.</p>
    <div style="margin-top:30px; text-align:center;">
      <a href="%s" style="background:#c62828; color:#fff; padding:12px 24px; text-decoration:none; border-radius:6px; font-weight:bold;">Update Payment Info</a>
    </div>
  </div>`, header(b), updateURL)
}

// RenewalReminderHTML is the body for an upcoming renewal. date is the
// already-formatted next payment attempt date.
func RenewalReminderHTML(b Branding, amount, date string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
    %s
    <h2 style="color:#f9a825;">Upcoming Renewal Reminder</h2>
    <p>Hi,</p>
    <p>This is a reminder that your subscription will renew on <strong>%s</strong> for <strong>%s</strong>.</p>
    <p>No action is required if your payment details are up to date.</p>
    <div style="margin-top:30px; text-align:center;">
      <a href="%s" style="background:#f9a825; color:#000; padding:12px 24px; text-decoration:none; border-radius:6px; font-weight:bold;">Manage Account</a>
    </div>
  </div>`, header(b), date, amount, b.AccountURL)
}

// TrialEndingHTML is the body for a trial that is about to end.
func TrialEndingHTML(b Branding, date string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
    %s
    <h2 style="color:#f9a825;">Your Trial is Ending Soon</h2>
    <p>Hi,</p>
    <p>Your trial will end on <strong>%s</strong>. Don&rsquo;t miss out &mdash; continue with a paid plan today.</p>
    <div style="margin-top:30px; text-align:center;">
      <a href="%s" style="background:#f9a825; color:#000; padding:12px 24px; text-decoration:none; border-radius:6px; font-weight:bold;">Upgrade Now</a>
    </div>
  </div>`, header(b), date, b.PricingURL)
}
