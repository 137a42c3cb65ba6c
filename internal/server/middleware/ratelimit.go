package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// Per-IP request budgets, per minute. Auth endpoints are throttled hard
// against credential stuffing; webhooks run loose because Stripe bursts
// retries from a small set of IPs.
const (
	AuthLimit    = 5
	PublicLimit  = 100
	AdminLimit   = 200
	WebhookLimit = 1000
	UploadLimit  = 20
)

// RateLimit returns an HTTP middleware that limits requests per IP address
// to the specified number per minute. Uses a sliding window algorithm.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return rateLimit(requestsPerMinute, time.Minute)
}

func rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requests, window)
}
