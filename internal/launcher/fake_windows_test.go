//go:build windows

package launcher

func disableCoreDumps() {}
