// Package ratelimit limits how often a key (typically a client IP) may hit an
// endpoint. Two implementations satisfy Limiter: an in-process token bucket
// per key and a Redis fixed-window counter shared by all replicas.
package ratelimit
