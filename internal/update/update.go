// Package update replaces the running dusk-warden binary with the latest GitHub release.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	dserrors "github.com/dusk-labs/dusk-warden/internal/errors"
	"github.com/dusk-labs/dusk-warden/internal/logging"
)

const (
	// DefaultRepository hosts the release assets.
	DefaultRepository = "dusk-labs/dusk-warden"

	defaultAPIURL  = "https://api.github.com"
	defaultTimeout = 60 * time.Second
)

// Release is the subset of the GitHub release payload used here.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Result describes what Update did.
type Result struct {
	Previous string
	Latest   string
	Updated  bool
	Path     string
}

// Config configures an Updater. Zero values select the defaults.
type Config struct {
	APIURL     string
	Repository string
	Current    string
	GOOS       string
	GOARCH     string
	Executable func() (string, error)
	HTTPClient *http.Client
}

// Updater checks for and installs new releases.
type Updater struct {
	config Config
	logger *logging.Logger
}

// New creates an updater for the given running version.
func New(config Config, logger *logging.Logger) *Updater {
	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}
	if config.Repository == "" {
		config.Repository = DefaultRepository
	}
	if config.GOOS == "" {
		config.GOOS = runtime.GOOS
	}
	if config.GOARCH == "" {
		config.GOARCH = runtime.GOARCH
	}
	if config.Executable == nil {
		config.Executable = os.Executable
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &Updater{config: config, logger: logger}
}

// AssetName is the release file built for this platform.
func (u *Updater) AssetName() string {
	name := fmt.Sprintf("dusk-warden-%s-%s", u.config.GOOS, u.config.GOARCH)
	if u.config.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// Latest fetches the newest published release.
func (u *Updater) Latest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(u.config.APIURL, "/"), u.config.Repository)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.config.HTTPClient.Do(req)
	if err != nil {
		return nil, dserrors.UserError{
			Message:    "Failed to check for updates",
			Details:    err.Error(),
			Suggestion: "Check your network connection and try again",
			Err:        err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup returned status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to parse release metadata: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("release metadata has no tag_name")
	}
	return &release, nil
}

// Update installs the latest release over the running executable when it differs
// from the current version.
func (u *Updater) Update(ctx context.Context) (*Result, error) {
	release, err := u.Latest(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Previous: u.config.Current, Latest: release.TagName}
	if !isNewer(release.TagName, u.config.Current) {
		u.logger.Debug("Latest release %s is not newer than %s", release.TagName, u.config.Current)
		return result, nil
	}

	asset, ok := findAsset(release, u.AssetName())
	if !ok {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Release %s has no build for %s/%s", release.TagName, u.config.GOOS, u.config.GOARCH),
			Suggestion: "Build from source or download a release manually",
		}
	}

	exe, err := u.config.Executable()
	if err != nil {
		return nil, fmt.Errorf("cannot locate running executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	u.logger.Debug("Downloading %s from %s", asset.Name, asset.BrowserDownloadURL)
	if err := u.install(ctx, asset.BrowserDownloadURL, exe); err != nil {
		return nil, err
	}

	result.Updated = true
	result.Path = exe
	return result, nil
}

// install downloads url next to exe and renames it into place.
func (u *Updater) install(ctx context.Context, url, exe string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := u.config.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(exe), ".dusk-warden-update-*")
	if err != nil {
		return &dserrors.IoError{Op: "create", Path: filepath.Dir(exe), Err: err}
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return &dserrors.IoError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &dserrors.IoError{Op: "close", Path: tmpPath, Err: err}
	}
	if err := os.Chmod(tmpPath, 0755); err != nil {
		return &dserrors.IoError{Op: "chmod", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, exe); err != nil {
		return &dserrors.IoError{Op: "replace", Path: exe, Err: err}
	}
	return nil
}

func findAsset(release *Release, name string) (Asset, bool) {
	for _, a := range release.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// isNewer reports whether tag is a later release than current. Builds without
// a semantic version (such as "dev") always take the release.
func isNewer(tag, current string) bool {
	latest, err := semver.NewVersion(tag)
	if err != nil {
		return false
	}
	running, err := semver.NewVersion(current)
	if err != nil {
		return true
	}
	return latest.GreaterThan(running)
}
