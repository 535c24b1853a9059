package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestNewHTTPDownloader(t *testing.T) {
	downloader := NewHTTPDownloader("1.0.0")

	if downloader.client == nil {
		t.Error("HTTP client should not be nil")
	}
	if downloader.userAgent != "skylift/1.0.0" {
		t.Errorf("userAgent = %s, want skylift/1.0.0", downloader.userAgent)
	}
}

func TestHTTPDownloaderDownload_Success(t *testing.T) {
	testContent := []byte(strings.Repeat("binary", 4096))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(testContent)))
		_, _ = w.Write(testContent)
	}))
	defer server.Close()

	dstPath := filepath.Join(t.TempDir(), "artifact")

	var downloaded int
	var totals []int64
	downloader := NewHTTPDownloader("1.0.0")
	err := downloader.Download(context.Background(), server.URL, dstPath, func(chunk int, total int64) {
		downloaded += chunk
		totals = append(totals, total)
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	content, err := os.ReadFile(dstPath)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(content) != string(testContent) {
		t.Error("Content mismatch")
	}

	if downloaded != len(testContent) {
		t.Errorf("reported %d bytes, want %d", downloaded, len(testContent))
	}
	for _, total := range totals {
		if total != int64(len(testContent)) {
			t.Fatalf("reported total %d, want %d", total, len(testContent))
		}
	}
}

func TestHTTPDownloaderDownload_UnknownLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte("part one "))
		flusher.Flush()
		_, _ = w.Write([]byte("part two"))
	}))
	defer server.Close()

	dstPath := filepath.Join(t.TempDir(), "artifact")

	var totals []int64
	err := NewHTTPDownloader("1.0.0").Download(context.Background(), server.URL, dstPath, func(chunk int, total int64) {
		totals = append(totals, total)
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if len(totals) == 0 {
		t.Fatal("expected progress callbacks")
	}
	for _, total := range totals {
		if total != UnknownLength {
			t.Errorf("total = %d, want %d", total, UnknownLength)
		}
	}
}

func TestHTTPDownloaderDownload_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dstPath := filepath.Join(t.TempDir(), "artifact")

	err := NewHTTPDownloader("1.0.0").Download(context.Background(), server.URL, dstPath, nil)
	if err == nil {
		t.Error("Expected error for 404 response")
	}

	if _, err := os.Stat(dstPath); !os.IsNotExist(err) {
		t.Error("File should not exist after failed download")
	}
}

func TestHTTPDownloaderDownload_NetworkError(t *testing.T) {
	dstPath := filepath.Join(t.TempDir(), "artifact")

	err := NewHTTPDownloader("1.0.0").Download(context.Background(), "http://invalid-url-that-does-not-exist.local", dstPath, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestHTTPDownloaderDownload_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewHTTPDownloader("1.0.0").Download(ctx, server.URL, filepath.Join(t.TempDir(), "artifact"), nil)
	if err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestHTTPDownloaderDownload_InvalidDestination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("test"))
	}))
	defer server.Close()

	err := NewHTTPDownloader("1.0.0").Download(context.Background(), server.URL, "/invalid/path/that/does/not/exist", nil)
	if err == nil {
		t.Error("Expected error for invalid destination path")
	}
}

func TestCalculateSHA256(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	testContent := []byte("hello world")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	checksum, err := calculateSHA256(testFile)
	if err != nil {
		t.Fatalf("calculateSHA256() error = %v", err)
	}

	sum := sha256.Sum256(testContent)
	if checksum != hex.EncodeToString(sum[:]) {
		t.Errorf("Checksum mismatch: got %s", checksum)
	}
}

func TestCalculateSHA256_FileNotFound(t *testing.T) {
	if _, err := calculateSHA256("/path/that/does/not/exist"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestVerifyChecksum(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "skylift-linux-x86_64")
	testContent := []byte("binary content")
	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	sum := sha256.Sum256(testContent)
	good := hex.EncodeToString(sum[:])

	tests := []struct {
		name     string
		checksum string
		wantErr  string
	}{
		{name: "match", checksum: good},
		{name: "match uppercase", checksum: strings.ToUpper(good)},
		{name: "mismatch", checksum: strings.Repeat("0", 64), wantErr: "mismatch"},
		{name: "empty", checksum: "  ", wantErr: "empty checksum"},
	}

	downloader := NewHTTPDownloader("1.0.0")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := downloader.VerifyChecksum(testFile, tt.checksum)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("VerifyChecksum() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("VerifyChecksum() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
