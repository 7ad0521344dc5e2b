// Package crypto defines the closed set of signature algorithm names the
// evaluation core needs to recognize. It does not sign or verify anything:
// actual cryptographic material and signing callbacks are the caller's
// concern (see spec §1, out of scope).
package crypto

import "strings"

// SignatureAlgorithm is a JOSE `alg` value as carried in a JWT-encoded
// credential's header, e.g. the `alg` entry of a presentation definition's
// `format.jwt_vc`.
type SignatureAlgorithm string

const (
	EdDSA   SignatureAlgorithm = "EdDSA"
	ES256K  SignatureAlgorithm = "ES256K"
	ES256   SignatureAlgorithm = "ES256"
	ES384   SignatureAlgorithm = "ES384"
	PS256   SignatureAlgorithm = "PS256"
	RS256   SignatureAlgorithm = "RS256"
	Unknown SignatureAlgorithm = ""
)

// EqualFold compares algorithm names case-insensitively, matching how JOSE
// header values are compared in the wild.
func (s SignatureAlgorithm) EqualFold(other string) bool {
	return strings.EqualFold(string(s), other)
}
