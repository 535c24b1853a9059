package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// HTTPDownloader downloads artifacts over HTTP
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
}

// NewHTTPDownloader creates a new HTTP downloader
func NewHTTPDownloader(currentVersion string) *HTTPDownloader {
	return &HTTPDownloader{
		client:    &http.Client{},
		userAgent: fmt.Sprintf(userAgent, currentVersion),
	}
}

// WithHTTPClient replaces the HTTP client
func (d *HTTPDownloader) WithHTTPClient(client *http.Client) *HTTPDownloader {
	d.client = client
	return d
}

// Download streams url into dst, calling onChunk after every write. The file
// is removed when the download fails.
func (d *HTTPDownloader) Download(ctx context.Context, url string, dst string, onChunk ChunkFunc) error {
	log.Debugf("starting download from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Warnf("error closing response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status: %d", resp.StatusCode)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %q: %w", dst, err)
	}

	contentLength := resp.ContentLength
	if contentLength <= 0 {
		contentLength = UnknownLength
	}

	w := &progressWriter{w: out, total: contentLength, onChunk: onChunk}
	_, copyErr := io.Copy(w, resp.Body)
	closeErr := out.Close()

	if copyErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to write response body to file: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to close %q: %w", dst, closeErr)
	}

	log.Infof("successfully downloaded %s to %s", url, dst)
	return nil
}

// VerifyChecksum compares the SHA-256 digest of file against the expected
// hex-encoded checksum
func (d *HTTPDownloader) VerifyChecksum(file, checksum string) error {
	expected := strings.ToLower(strings.TrimSpace(checksum))
	if expected == "" {
		return fmt.Errorf("empty checksum for %s", file)
	}

	actual, err := calculateSHA256(file)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}

	if actual != expected {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", file, expected, actual)
	}

	return nil
}

// calculateSHA256 returns the hex digest of a file
func calculateSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// progressWriter reports each write to onChunk
type progressWriter struct {
	w       io.Writer
	total   int64
	onChunk ChunkFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 && p.onChunk != nil {
		p.onChunk(n, p.total)
	}
	return n, err
}
