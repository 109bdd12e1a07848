package version

var (
	Version = "dev"
	Commit  = "none"
	Built   = "unknown"
)

type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
}

func Info() BuildInfo {
	return BuildInfo{Version: Version, Commit: Commit, Built: Built}
}

// String renders the build info the way --version prints it.
func (b BuildInfo) String() string {
	return "load-monitor version " + b.Version + ", commit " + b.Commit + ", built " + b.Built
}
