package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	binaryName    = "kotoba"
	checksumsFile = "checksums.txt"
)

var ErrUnsupportedPlatform = errors.New("no kotoba release for this platform")

// artifact is the archive published for one platform.
type artifact struct {
	name   string // e.g. kotoba_linux_amd64.tar.gz
	binary string // file to take out of the archive
	zip    bool
}

// artifactFor names the release archive for goos/goarch. Releases ship
// amd64 and arm64 builds for linux, darwin and windows.
func artifactFor(goos, goarch string) (artifact, error) {
	switch goarch {
	case "amd64", "arm64":
	default:
		return artifact{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
	base := fmt.Sprintf("%s_%s_%s", binaryName, goos, goarch)
	switch goos {
	case "linux", "darwin":
		return artifact{name: base + ".tar.gz", binary: binaryName}, nil
	case "windows":
		return artifact{name: base + ".zip", binary: binaryName + ".exe", zip: true}, nil
	default:
		return artifact{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
}

// unpack returns the kotoba executable from the archive.
func (a artifact) unpack(data []byte) ([]byte, error) {
	if a.zip {
		return unzipFile(data, a.binary)
	}
	return untarFile(data, a.binary)
}

func untarFile(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func unzipFile(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if path.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// checksums maps file names to hex sha256 digests, read from a
// "<digest>  <file>" listing.
type checksums map[string]string

func parseChecksums(data []byte) checksums {
	out := make(checksums)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 {
			out[fields[1]] = strings.ToLower(fields[0])
		}
	}
	return out
}

// verify checks data against the digest listed for name.
func (c checksums) verify(name string, data []byte) error {
	want, ok := c[name]
	if !ok {
		return fmt.Errorf("%w: %s is not listed in %s", ErrChecksum, name, checksumsFile)
	}
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("%w: %s has sha256 %s, want %s", ErrChecksum, name, got, want)
	}
	return nil
}
