package version

import (
	"runtime/debug"
	"strings"
)

// String reports the module version testlab was built from. Local and
// pseudo-version builds report "(devel)", suffixed with the VCS revision
// when the toolchain recorded one.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	v := info.Main.Version
	if v != "" && v != "(devel)" && !strings.Contains(v, "+dirty") && !isPseudoVersion(v) {
		return v
	}
	if rev := setting(info, "vcs.revision"); len(rev) >= 12 {
		suffix := rev[:12]
		if setting(info, "vcs.modified") == "true" {
			suffix += "-dirty"
		}
		return "(devel " + suffix + ")"
	}
	return "(devel)"
}

func setting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// isPseudoVersion matches vX.Y.Z-yyyymmddhhmmss-abcdefabcdef and its
// pre-release variants.
func isPseudoVersion(v string) bool {
	v, _, _ = strings.Cut(v, "+")
	parts := strings.Split(v, "-")
	if len(parts) < 3 {
		return false
	}
	ts, hash := parts[len(parts)-2], parts[len(parts)-1]
	if i := strings.LastIndexByte(ts, '.'); i >= 0 {
		ts = ts[i+1:]
	}
	return len(ts) == 14 && isAll(ts, "0123456789") && len(hash) >= 12 && isAll(hash, "0123456789abcdefABCDEF")
}

func isAll(s, alphabet string) bool {
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}
