// Package cli provides command-line user experience helpers (errors, completion, recovery).
package cli

import "fmt"

// UnsupportedFeatureError returns a standardized error for unsupported features.
// Provide the feature name and, optionally, a brief detail hint.
func UnsupportedFeatureError(feature string, details ...string) error {
	base := fmt.Sprintf("%s is not yet supported in this build.", feature)
	if len(details) > 0 && details[0] != "" {
		return fmt.Errorf(base+" %s", details[0])
	}
	return fmt.Errorf("%s", base)
}
