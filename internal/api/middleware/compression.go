package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	// Skip compression for these content types
	excludedContentTypes = []string{
		"image/",
		"video/",
		"audio/",
	}
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// Minimum content length to trigger compression (default: 1KB)
	MinLength int
	// Gzip compression level (1-9, higher = better compression but slower)
	Level int
	// Path prefixes that negotiate their own encoding
	ExcludedPaths []string
	Logger        *zap.Logger
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength: 1024, // 1KB
		Level:     gzip.DefaultCompression,
		// promhttp gzips on its own
		ExcludedPaths: []string{"/metrics"},
	}
}

// shouldCompress checks if the response should be compressed based on content type
func shouldCompress(contentType string) bool {
	for _, excluded := range excludedContentTypes {
		if strings.HasPrefix(contentType, excluded) {
			return false
		}
	}
	return true
}

func excludedPath(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Compression returns a middleware that inflates gzip request bodies and
// gzips responses for clients that accept it
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if c.Request.Header.Get("Content-Encoding") == "gzip" {
			reader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			body, err := io.ReadAll(reader)
			reader.Close()
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			c.Request.Header.Del("Content-Encoding")
			c.Request.ContentLength = int64(len(body))
		}

		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") ||
			excludedPath(c.Request.URL.Path, cfg.ExcludedPaths) {
			c.Next()
			return
		}

		gzipWriter := &gzipResponseWriter{
			ResponseWriter: c.Writer,
			minLength:      cfg.MinLength,
			level:          cfg.Level,
			contentBuf:     new(bytes.Buffer),
		}
		c.Writer = gzipWriter

		// Add Vary header to prevent caching issues
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		if err := gzipWriter.finishWriting(); err != nil {
			logger.Warn("http.compression_failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
	}
}

// gzipResponseWriter buffers the body so the compression decision can look at
// its final size. After a Flush the remainder streams uncompressed.
type gzipResponseWriter struct {
	gin.ResponseWriter
	minLength   int
	level       int
	contentBuf  *bytes.Buffer
	passthrough bool
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	if g.passthrough {
		return g.ResponseWriter.Write(data)
	}
	return g.contentBuf.Write(data)
}

func (g *gzipResponseWriter) finishWriting() error {
	if g.passthrough {
		return nil
	}

	contentType := g.Header().Get("Content-Type")
	content := g.contentBuf.Bytes()

	if shouldCompress(contentType) && len(content) >= g.minLength {
		gz, err := gzip.NewWriterLevel(g.ResponseWriter, g.level)
		if err != nil {
			return err
		}
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Del("Content-Length")

		if _, err := gz.Write(content); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	}

	if len(content) == 0 {
		g.ResponseWriter.WriteHeaderNow()
		return nil
	}
	_, err := g.ResponseWriter.Write(content)
	return err
}

func (g *gzipResponseWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipResponseWriter) CloseNotify() <-chan bool {
	return g.ResponseWriter.CloseNotify()
}

func (g *gzipResponseWriter) Flush() {
	if !g.passthrough {
		g.passthrough = true
		if g.contentBuf.Len() > 0 {
			_, _ = g.ResponseWriter.Write(g.contentBuf.Bytes())
			g.contentBuf.Reset()
		}
	}
	g.ResponseWriter.Flush()
}

func (g *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return g.ResponseWriter.Hijack()
}
