// Package did extracts the method segment of a DID string. Resolution of
// DID documents is out of scope for the evaluation core (spec §1); the
// DIDRestriction handler only ever needs the method name.
package did

import "strings"

// Method returns the method segment of a `did:<method>:...` string, or ""
// if did is not a well-formed DID.
func Method(did string) string {
	parts := strings.SplitN(did, ":", 3)
	if len(parts) < 3 || parts[0] != "did" {
		return ""
	}

	return parts[1]
}
