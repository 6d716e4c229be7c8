//go:build windows

package release

// NeedsElevation always returns false on Windows (no access check).
func NeedsElevation(string) bool {
	return false
}
