package bridge

// HostProfile describes the host environment the bridge runs in. It is
// selected once at construction; code never branches on platform at call
// sites.
type HostProfile struct {
	// Name labels the host environment in logs, e.g. "ios", "android",
	// "server".
	Name string

	// NewArchitecture marks hosts whose module loader drives install and
	// cleanup itself (one call each per runtime). On legacy hosts the
	// application shell makes those calls instead; the bridge contract is
	// identical either way.
	NewArchitecture bool
}

// DefaultProfile is used when no profile is configured.
func DefaultProfile() HostProfile {
	return HostProfile{Name: "default", NewArchitecture: true}
}
