package app

import (
	"runtime"
)

// hostSettings returns the default value of every known setting for the
// machine vkrecipe runs on.
func hostSettings() map[string]string {
	s := map[string]string{
		"os":         "Linux",
		"arch":       runtime.GOARCH,
		"compiler":   "gcc",
		"build_type": "Release",
	}
	switch runtime.GOOS {
	case "windows":
		s["os"], s["compiler"] = "Windows", "msvc"
	case "darwin":
		s["os"], s["compiler"] = "Macos", "apple-clang"
	case "freebsd":
		s["os"], s["compiler"] = "FreeBSD", "clang"
	}
	switch runtime.GOARCH {
	case "amd64":
		s["arch"] = "x86_64"
	case "386":
		s["arch"] = "x86"
	case "arm64":
		s["arch"] = "armv8"
	}
	return s
}

// resolveSettings returns the values of the declared settings, preferring
// overrides over host defaults. Overrides for undeclared settings are
// returned separately so the caller can report them.
func resolveSettings(declared []string, overrides map[string]string) (map[string]string, []string) {
	host := hostSettings()
	out := make(map[string]string, len(declared))
	for _, name := range declared {
		if v, ok := overrides[name]; ok {
			out[name] = v
			continue
		}
		out[name] = host[name]
	}

	var ignored []string
	for name := range overrides {
		if _, ok := out[name]; !ok {
			ignored = append(ignored, name)
		}
	}
	return out, ignored
}
