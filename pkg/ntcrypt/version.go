package ntcrypt

// Version is populated at build time via ldflags.
var Version = "v0.0.0-in-progress"

// LibraryVersion returns the semantic version of the library. In development
// it defaults to v0.0.0-in-progress.
func LibraryVersion() string {
	return Version
}
