// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// hstsValue asks browsers to stick to HTTPS for a year.
const hstsValue = "max-age=31536000; includeSubDomains"

// SecureHeaders adds security-related HTTP headers to every response.
// When hsts is set, Strict-Transport-Security is sent as well; enable it
// only behind TLS.
func SecureHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			// Prevent the browser from MIME-sniffing the Content-Type.
			h.Set("X-Content-Type-Options", "nosniff")

			// Storefronts may only be framed by the admin on the same origin.
			h.Set("X-Frame-Options", "SAMEORIGIN")

			// Disable the legacy XSS filter (can cause issues; CSP is preferred).
			h.Set("X-XSS-Protection", "0")

			// Control what information is sent in the Referer header.
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Storefronts never need these browser features.
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")

			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}

			next.ServeHTTP(w, r)
		})
	}
}
