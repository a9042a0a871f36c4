package domain

// SourceTag names one OS-level data channel that contributes network information
type SourceTag string

const (
	// SourceConnection is the current association reported by `airport -I`
	SourceConnection SourceTag = "connection"
	// SourceScanList is the visible network list reported by `airport -s`
	SourceScanList SourceTag = "scan_list"
	// SourcePreferred is the saved network list from networksetup
	SourcePreferred SourceTag = "preferred"
	// SourceCredential is the keychain password lookup
	SourceCredential SourceTag = "credential"
)

// SourcePriority is the fixed resolution order used when sources disagree.
// Earlier entries win.
var SourcePriority = []SourceTag{
	SourceConnection,
	SourceScanList,
	SourcePreferred,
	SourceCredential,
}

// Rank returns the position of the source in SourcePriority.
// Unknown sources rank after every known source.
func (s SourceTag) Rank() int {
	for i, tag := range SourcePriority {
		if tag == s {
			return i
		}
	}
	return len(SourcePriority)
}

// Valid returns true if the tag is one of the known sources
func (s SourceTag) Valid() bool {
	return s.Rank() < len(SourcePriority)
}

func (s SourceTag) String() string {
	return string(s)
}
