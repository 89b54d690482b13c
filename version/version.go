// Package version stamps the builder's own version into every manifest's
// tool_version field. Grounded on
// version/version.go's link-time-overridable var shape.
package version

// version is replaced at link time via
// -ldflags "-X github.com/epistemic/pack/version.version=v1.2.3".
// The value here is used whenever the module is built without that flag.
var version = "v0.1.0+unknown"

// revision is filled with the VCS revision at link time, when available.
var revision = ""

// String returns the builder's version string, used for the manifest's
// tool_version field.
func String() string {
	if revision != "" {
		return version + "+" + revision
	}
	return version
}
