// Package cryptosuite names the Linked Data signature suites the evaluation
// core can reason about when checking `limit_disclosure` and format
// restrictions. As with package crypto, this is a closed vocabulary of
// names, never an implementation of the suites themselves.
package cryptosuite

// SignatureType identifies a Linked Data Proof suite by name, matching the
// `proof_type` entries of a presentation definition's `format.ldp*` blocks.
type SignatureType string

const (
	JSONWebSignature2020 SignatureType = "JsonWebSignature2020"
	Ed25519Signature2018 SignatureType = "Ed25519Signature2018"
	Ed25519Signature2020 SignatureType = "Ed25519Signature2020"
	BbsBlsSignature2020  SignatureType = "BbsBlsSignature2020"
)

// AllowList is a set of signature suite names a caller has declared usable
// for selective disclosure (the `limitDisclosureSignatureSuites` opt) or as
// a general format restriction.
type AllowList map[SignatureType]struct{}

// NewAllowList builds an AllowList from caller-supplied suite names.
func NewAllowList(suites ...string) AllowList {
	al := make(AllowList, len(suites))
	for _, s := range suites {
		al[SignatureType(s)] = struct{}{}
	}

	return al
}

// Allows reports whether the suite name is present in the allow-list. An
// empty/nil allow-list allows nothing, per spec §4.5: limit disclosure
// requires an explicit suite to be listed.
func (al AllowList) Allows(suite string) bool {
	if len(al) == 0 {
		return false
	}

	_, ok := al[SignatureType(suite)]

	return ok
}
