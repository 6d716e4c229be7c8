package launcher

import (
	"path/filepath"
	"runtime"
)

// BaseName is the file name of the toolbox binary without any platform suffix.
const BaseName = "genai-toolbox"

// Platform identifies an operating system and CPU architecture pair using Go's
// GOOS and GOARCH values.
type Platform struct {
	OS   string
	Arch string
}

// Current returns the platform the launcher was built for.
func Current() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// SupportedPlatforms lists the platforms with published toolbox binaries.
var SupportedPlatforms = []Platform{
	{OS: "darwin", Arch: "amd64"},
	{OS: "darwin", Arch: "arm64"},
	{OS: "linux", Arch: "amd64"},
	{OS: "linux", Arch: "arm64"},
	{OS: "windows", Arch: "amd64"},
}

// supportedLabels are the human-readable names shown in diagnostics.
var supportedLabels = []string{
	"macOS (Intel and Apple Silicon)",
	"Linux (x64 and arm64)",
	"Windows (x64)",
}

// IsSupported reports whether p has a published toolbox binary.
func IsSupported(p Platform) bool {
	for _, s := range SupportedPlatforms {
		if s == p {
			return true
		}
	}

	return false
}

// SupportedLabels returns the supported platform families for display.
func SupportedLabels() []string {
	out := make([]string, len(supportedLabels))
	copy(out, supportedLabels)

	return out
}

// BinaryName returns the toolbox executable name for goos. Windows binaries
// carry an ".exe" suffix; every other platform uses the bare name.
func BinaryName(goos string) string {
	if goos == "windows" {
		return BaseName + ".exe"
	}

	return BaseName
}

// BinaryPath joins installDir with the executable name for goos.
func BinaryPath(installDir, goos string) string {
	return filepath.Join(installDir, BinaryName(goos))
}
