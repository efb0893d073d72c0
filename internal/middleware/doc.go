// Package middleware provides HTTP middleware for the gallery server:
// request logging, Prometheus metrics collection, and gzip compression
// for compressible responses.
package middleware
