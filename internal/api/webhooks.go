package api

import (
	"io"
	"net/http"

	"github.com/yokweb/billing-notifier/internal/metrics"
	stripeinternal "github.com/yokweb/billing-notifier/internal/stripe"
)

// ─── POST /webhook ────────────────────────────────────────────────────────────

// handleStripeWebhook is the entry point for all Stripe webhook deliveries.
//
// The handler acknowledges first: once the signature checks out, the 200 is
// written before any downstream work so Stripe's retry-on-timeout behaviour
// never re-delivers an event because a customer lookup or mail submission was
// slow. Classification and dispatch run on the worker pool afterwards.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	// ── 1. Read and size-limit the raw body ───────────────────────────────────
	// The signature check must run against the exact bytes Stripe signed, so
	// the body is captured before any JSON decoding.
	r.Body = http.MaxBytesReader(w, r.Body, 65536) // 64 KB — generous for any Stripe event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}

	// ── 2. Verify the Stripe-Signature header ─────────────────────────────────
	sig := r.Header.Get("Stripe-Signature")
	event, err := s.stripe.VerifyWebhook(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Warn("webhook: invalid signature", "error", err, logField(r))
		metrics.SignatureFailures.Inc()
		http.Error(w, "invalid webhook signature", http.StatusBadRequest)
		return
	}

	// ── 3. Classify and acknowledge ───────────────────────────────────────────
	notice := stripeinternal.Classify(event)
	metrics.EventsReceived.WithLabelValues(event.Type).Inc()

	s.logger.Info("webhook: event verified",
		"event_id", event.ID,
		"type", event.Type,
		"kind", string(notice.Kind),
		logField(r),
	)

	// The response is final regardless of what dispatch does with the notice.
	respond(w, http.StatusOK, map[string]bool{"received": true})

	// ── 4. Hand off to the dispatch pool ──────────────────────────────────────
	// Enqueue never blocks. A full queue drops the notice — at-most-once,
	// best-effort delivery, and Stripe has already been told 200.
	if err := s.worker.Enqueue(r.Context(), notice); err != nil {
		s.logger.Warn("webhook: dropping notice",
			"event_id", event.ID,
			"error", err,
			logField(r),
		)
	}
}
