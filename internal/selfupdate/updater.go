package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
	ErrNoRelease     = errors.New("release not found")
)

// Stage names a step of Update.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageInstall  Stage = "install"
	StageDone     Stage = "done"
)

// Progress is reported as Update moves through its stages.
type Progress struct {
	Stage   Stage
	Message string
}

// UpdateInput selects the release to install. An empty TargetVersion
// means the latest release; an explicit one may also be a downgrade.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// Update installs a release over the running executable and returns the
// release it installed. progress may be nil.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(Progress)) (*Release, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	if IsDevBuild(input.CurrentVersion) {
		return nil, ErrDevBuild
	}

	rel, err := c.resolve(ctx, input, progress)
	if err != nil {
		return nil, err
	}
	art, err := artifactFor(c.goos, c.goarch)
	if err != nil {
		return nil, err
	}

	progress(Progress{StageDownload, fmt.Sprintf("Downloading kotoba %s (%s)...", rel.Tag, art.name)})
	archive, err := c.download(ctx, rel.Tag, art.name)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", art.name, err)
	}
	sums, err := c.download(ctx, rel.Tag, checksumsFile)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", checksumsFile, err)
	}

	progress(Progress{StageVerify, "Verifying sha256 checksum..."})
	if err := parseChecksums(sums).verify(art.name, archive); err != nil {
		return nil, err
	}
	bin, err := art.unpack(archive)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", art.name, err)
	}

	target, err := c.execPath()
	if err != nil {
		return nil, fmt.Errorf("resolve executable path: %w", err)
	}
	progress(Progress{StageInstall, "Installing to " + target + "..."})
	if err := replaceExecutable(target, bin); err != nil {
		return nil, fmt.Errorf("install: %w", err)
	}

	progress(Progress{StageDone, fmt.Sprintf("kotoba %s installed. Restart kotoba to use it.", rel.Tag)})
	return &rel, nil
}

func (c *Checker) resolve(ctx context.Context, input *UpdateInput, progress func(Progress)) (Release, error) {
	if input.TargetVersion != "" {
		tag := input.TargetVersion
		if !strings.HasPrefix(tag, "v") {
			tag = "v" + tag
		}
		progress(Progress{StageResolve, "Looking up kotoba " + tag + "..."})
		rel, err := c.fetchRelease(ctx, "tags/"+tag)
		if err != nil {
			return Release{}, err
		}
		if canonical(rel.Tag) == canonical(input.CurrentVersion) {
			return Release{}, ErrAlreadyLatest
		}
		return rel, nil
	}

	progress(Progress{StageResolve, "Looking up the latest kotoba release..."})
	res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
	if err != nil {
		return Release{}, fmt.Errorf("check for updates: %w", err)
	}
	if !res.UpdateAvailable {
		return Release{}, ErrAlreadyLatest
	}
	return res.Latest, nil
}

// download fetches a file attached to the release tagged tag.
func (c *Checker) download(ctx context.Context, tag, file string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// replaceExecutable writes bin next to target and renames it into place,
// keeping target's permission bits.
func replaceExecutable(target string, bin []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(bin); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}
