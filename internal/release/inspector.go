// Package release looks up published genai-toolbox binaries on GitHub.
//
// It wraps the go-selfupdate library to find the newest release carrying an
// asset for a given platform. Nothing is downloaded or installed: the lookup
// only answers whether a binary exists for the platform and where it lives.
package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	selfupdate "github.com/creativeprojects/go-selfupdate"

	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
)

// ChecksumsFile is the release asset listing SHA-256 sums for every binary.
const ChecksumsFile = "checksums.txt"

// IsDisabled returns true if release lookups are disabled via
// GENAI_TOOLBOX_RELEASE_CHECK_DISABLED.
func IsDisabled() bool {
	v := os.Getenv("GENAI_TOOLBOX_RELEASE_CHECK_DISABLED")
	return v == "1" || strings.EqualFold(v, "true")
}

// Info holds the result of a release lookup for one platform.
type Info struct {
	Platform      string `json:"platform"`
	Available     bool   `json:"available"`
	LatestVersion string `json:"latestVersion,omitempty"`
	AssetName     string `json:"assetName,omitempty"`
	AssetURL      string `json:"assetURL,omitempty"`
	ReleaseURL    string `json:"releaseURL,omitempty"`
	Checksummed   bool   `json:"checksummed"`
}

// Inspector queries a GitHub repository for toolbox releases.
type Inspector struct {
	repo   string
	source selfupdate.Source
}

// NewInspector creates a Inspector for the owner/name repository slug. GITHUB_TOKEN
// is used when set to lift the anonymous API rate limit.
func NewInspector(repo string) (*Inspector, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{
		APIToken: os.Getenv("GITHUB_TOKEN"),
	})
	if err != nil {
		return nil, fmt.Errorf("create github source: %w", err)
	}

	return &Inspector{repo: repo, source: source}, nil
}

// Repo returns the repository slug being inspected.
func (p *Inspector) Repo() string {
	return p.repo
}

// Inspect finds the newest release with an asset for platform. A release
// without a checksums file still counts as available, with Checksummed unset.
func (p *Inspector) Inspect(ctx context.Context, platform launcher.Platform) (*Info, error) {
	info := &Info{Platform: platform.String()}

	rel, found, err := p.detect(ctx, platform, true)
	if errors.Is(err, selfupdate.ErrValidationAssetNotFound) {
		rel, found, err = p.detect(ctx, platform, false)
	} else if err == nil && found {
		info.Checksummed = true
	}

	if err != nil {
		return nil, fmt.Errorf("detect latest release: %w", err)
	}

	if !found {
		return info, nil
	}

	info.Available = true
	info.LatestVersion = rel.Version()
	info.AssetName = rel.AssetName
	info.AssetURL = rel.AssetURL
	info.ReleaseURL = rel.URL

	return info, nil
}

func (p *Inspector) detect(ctx context.Context, platform launcher.Platform, validate bool) (*selfupdate.Release, bool, error) {
	cfg := selfupdate.Config{
		Source: p.source,
		OS:     platform.OS,
		Arch:   platform.Arch,
	}

	if validate {
		cfg.Validator = &selfupdate.ChecksumValidator{UniqueFilename: ChecksumsFile}
	}

	updater, err := selfupdate.NewUpdater(cfg)
	if err != nil {
		return nil, false, fmt.Errorf("create release detector: %w", err)
	}

	rel, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(p.repo))
	if err != nil {
		return nil, false, err
	}

	return rel, found, nil
}

// Compare reports whether latest is newer than installed. An installed
// version that is not semver (e.g. "dev") is always considered outdated; an
// unparseable latest version never is.
func Compare(installed, latest string) bool {
	latestSemver, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}

	current, err := semver.NewVersion(installed)
	if err != nil {
		return true
	}

	return latestSemver.GreaterThan(current)
}

var versionPattern = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?`)

// ParseVersion extracts the first semantic version from a --version banner
// such as "genai-toolbox version 0.9.0+binary.linux.amd64".
func ParseVersion(output string) (string, bool) {
	match := versionPattern.FindString(output)
	if match == "" {
		return "", false
	}

	v, err := semver.NewVersion(match)
	if err != nil {
		return "", false
	}

	return v.String(), true
}
