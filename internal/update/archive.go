package update

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ExtractBinary opens the executable contained in artifact. Plain files are
// returned as-is; .tar.gz/.tgz and .zip archives are searched for an entry
// whose base name is binaryName, falling back to the only regular file.
func ExtractBinary(artifact, binaryName string) (io.ReadCloser, error) {
	lower := strings.ToLower(artifact)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return extractFromTarGz(artifact, binaryName)
	case strings.HasSuffix(lower, ".zip"):
		return extractFromZip(artifact, binaryName)
	default:
		f, err := os.Open(artifact)
		if err != nil {
			return nil, fmt.Errorf("failed to open artifact: %w", err)
		}
		return f, nil
	}
}

// ArtifactName returns the file name used to store a downloaded asset
func ArtifactName(url string) string {
	name := path.Base(strings.SplitN(url, "?", 2)[0])
	if name == "." || name == "/" || name == "" {
		return "artifact"
	}
	return name
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func extractFromTarGz(artifact, binaryName string) (io.ReadCloser, error) {
	// The archive is walked twice when no entry matches by name: once to
	// count regular files, once to open the single candidate.
	match, err := findTarEntry(artifact, binaryName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read gzip stream: %w", err)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err != nil {
			_ = gz.Close()
			_ = f.Close()
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}
		if hdr.Name == match {
			return &readCloser{Reader: tr, closers: []io.Closer{gz, f}}, nil
		}
	}
}

func findTarEntry(artifact, binaryName string) (string, error) {
	f, err := os.Open(artifact)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	var regular []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read tar archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if path.Base(hdr.Name) == binaryName {
			return hdr.Name, nil
		}
		regular = append(regular, hdr.Name)
	}

	return pickSingle(regular, binaryName)
}

func extractFromZip(artifact, binaryName string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	var regular []*zip.File
	var match *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if path.Base(f.Name) == binaryName {
			match = f
			break
		}
		regular = append(regular, f)
	}

	if match == nil {
		if len(regular) != 1 {
			_ = zr.Close()
			return nil, fmt.Errorf("binary %s not found in archive", binaryName)
		}
		match = regular[0]
	}

	rc, err := match.Open()
	if err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("failed to open %s in archive: %w", match.Name, err)
	}

	return &readCloser{Reader: rc, closers: []io.Closer{rc, zr}}, nil
}

func pickSingle(names []string, binaryName string) (string, error) {
	if len(names) != 1 {
		return "", fmt.Errorf("binary %s not found in archive", binaryName)
	}
	return names[0], nil
}
