package version

import "runtime/debug"

// Version is the release name, set at build time:
//
//	go build -ldflags "-X github.com/vkuusisto/pulssi/version.Version=$(git describe --dirty)"
//
// Unreleased builds fall back to the vcs revision stamped into the build
// info, if there is one.
var Version string

var Hash = vcsHash()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()

func vcsHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
