package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// Level is the gzip compression level
	Level int
	// CompressibleTypes is a list of content types that should be compressed
	CompressibleTypes []string
}

// DefaultCompressionConfig returns sensible defaults for compression
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		Level: gzip.DefaultCompression,
		CompressibleTypes: []string{
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/json",
			"application/javascript",
			"image/svg+xml",
		},
	}
}

// gzipWriterPool reduces allocations by reusing gzip writers
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// gzipResponseWriter wraps http.ResponseWriter to provide gzip compression
type gzipResponseWriter struct {
	http.ResponseWriter
	config        CompressionConfig
	gzipWriter    *gzip.Writer
	decided       bool
	compressing   bool
	statusCode    int
	headerWritten bool
}

func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	if g.headerWritten {
		return
	}
	g.statusCode = statusCode
	g.decide()
	g.ResponseWriter.WriteHeader(g.statusCode)
	g.headerWritten = true
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if !g.headerWritten {
		g.WriteHeader(http.StatusOK)
	}
	if g.compressing {
		return g.gzipWriter.Write(b)
	}
	return g.ResponseWriter.Write(b)
}

// decide checks the content type once, on first write, and switches the
// response into gzip mode when it is compressible.
func (g *gzipResponseWriter) decide() {
	if g.decided {
		return
	}
	g.decided = true

	contentType := g.Header().Get("Content-Type")
	for _, t := range g.config.CompressibleTypes {
		if strings.HasPrefix(contentType, t) {
			g.compressing = true
			break
		}
	}
	if !g.compressing {
		return
	}

	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Del("Content-Length")

	gw := gzipWriterPool.Get().(*gzip.Writer)
	gw.Reset(g.ResponseWriter)
	g.gzipWriter = gw
}

// close flushes and returns the pooled gzip writer.
func (g *gzipResponseWriter) close() {
	if g.gzipWriter == nil {
		return
	}
	g.gzipWriter.Close()
	gzipWriterPool.Put(g.gzipWriter)
	g.gzipWriter = nil
}

// Compression returns a middleware that gzips compressible responses for
// clients that accept it.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gzw := &gzipResponseWriter{
				ResponseWriter: w,
				config:         config,
				statusCode:     http.StatusOK,
			}
			defer gzw.close()

			next.ServeHTTP(gzw, r)
		})
	}
}
