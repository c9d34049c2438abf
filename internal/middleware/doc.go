// Package middleware provides HTTP middleware for the idea API.
//
// Middleware is composed with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    middleware.CORS(origins),
//	)
//
// Auth validates bearer tokens and stores the caller's identity in the
// request context, readable with GetUserID and GetDisplayName.
// Idempotency replays stored responses for repeated POSTs that carry the
// same Idempotency-Key; it must run after Auth so keys are scoped per user.
package middleware
