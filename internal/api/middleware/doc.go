// Package middleware contains the HTTP middleware used by the router: the
// bearer-token auth guard and its role checks, request tracing, Prometheus
// metrics and rate limiting.
package middleware
