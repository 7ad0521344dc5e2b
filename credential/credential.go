// Package credential wraps a caller-supplied Verifiable Credential — JWT-
// encoded or JSON-LD — into a single in-memory representation with a
// stable JSONPath root, so one JSONPath syntax works regardless of
// envelope (spec §3 "VerifiableCredential (wrapped)", §9 "Dual path-root
// credentials").
package credential

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"

	"github.com/identity-foundation/pex-go/pexerrors"
)

// Envelope names the wire format a credential arrived in.
type Envelope string

const (
	EnvelopeJWT    Envelope = "jwt_vc"
	EnvelopeJSONLD Envelope = "ldp_vc"
)

// Credential is a decoded VC with a canonical JSON claim view, regardless
// of its original envelope.
type Credential struct {
	// Envelope is the original wire format.
	Envelope Envelope
	// RawJWT is the original compact JWT string, empty for JSON-LD
	// credentials.
	RawJWT string
	// Claims is the canonical decoded view: `credentialSubject`,
	// `issuer`, `issuanceDate`, etc. all addressable the same way
	// regardless of envelope.
	Claims map[string]interface{}
	// ProofAlgOrType is the JOSE `alg` (JWT envelope) or Linked Data
	// `proof.type` (JSON-LD envelope) — the opaque signature suite name
	// handlers compare against allow-lists.
	ProofAlgOrType string
}

// Wrap decodes a single credential, accepting either a JSON-LD object or a
// JSON string holding a compact JWT with a `vc` claim.
func Wrap(raw json.RawMessage) (*Credential, error) {
	trimmed := strings.TrimSpace(string(raw))

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var jwtStr string
		if err := json.Unmarshal(raw, &jwtStr); err != nil {
			return nil, pexerrors.WrapInputError(err, "credential is not a valid JSON string")
		}

		return wrapJWT(jwtStr)
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, pexerrors.WrapInputError(err, "credential is neither a JWT string nor a JSON object")
	}

	return wrapJSONLD(claims), nil
}

func wrapJWT(token string) (*Credential, error) {
	parsed, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return nil, pexerrors.WrapInputError(err, "failed to parse JWT credential")
	}

	vcClaim, ok := parsed.Get("vc")
	if !ok {
		return nil, pexerrors.NewInputError("JWT credential is missing the 'vc' claim")
	}

	claimsBytes, err := json.Marshal(vcClaim)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal 'vc' claim")
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal 'vc' claim")
	}

	applyJWTRegisteredClaims(parsed, claims)

	alg := ""

	if msg, err := jws.Parse([]byte(token)); err == nil && len(msg.Signatures()) > 0 {
		alg = msg.Signatures()[0].ProtectedHeaders().Algorithm().String()
	}

	return &Credential{
		Envelope:       EnvelopeJWT,
		RawJWT:         token,
		Claims:         claims,
		ProofAlgOrType: alg,
	}, nil
}

// applyJWTRegisteredClaims copies JWT-registered claims (iss, sub, jti,
// nbf) onto their VC equivalents when the VC body omits them, per the W3C
// VC-JWT mapping.
func applyJWTRegisteredClaims(token jwt.Token, claims map[string]interface{}) {
	if _, ok := claims["issuer"]; !ok {
		if iss := token.Issuer(); iss != "" {
			claims["issuer"] = iss
		}
	}

	if _, ok := claims["id"]; !ok {
		if jti := token.JwtID(); jti != "" {
			claims["id"] = jti
		}
	}

	if _, ok := claims["issuanceDate"]; !ok {
		if nbf := token.NotBefore(); !nbf.IsZero() {
			claims["issuanceDate"] = nbf.UTC().Format(time.RFC3339)
		}
	}

	subject, hasSubject := claims["credentialSubject"].(map[string]interface{})
	if hasSubject {
		if _, ok := subject["id"]; !ok {
			if sub := token.Subject(); sub != "" {
				subject["id"] = sub
			}
		}
	}
}

func wrapJSONLD(claims map[string]interface{}) *Credential {
	return &Credential{
		Envelope:       EnvelopeJSONLD,
		Claims:         claims,
		ProofAlgOrType: proofType(claims),
	}
}

func proofType(claims map[string]interface{}) string {
	proof, ok := claims["proof"]
	if !ok {
		return ""
	}

	switch p := proof.(type) {
	case map[string]interface{}:
		if t, ok := p["type"].(string); ok {
			return t
		}
	case []interface{}:
		if len(p) > 0 {
			if m, ok := p[0].(map[string]interface{}); ok {
				if t, ok := m["type"].(string); ok {
					return t
				}
			}
		}
	}

	return ""
}

// Issuer returns the credential's issuer DID/URI, handling both the bare
// string and `{id: ...}` object forms.
func (c *Credential) Issuer() string {
	switch v := c.Claims["issuer"].(type) {
	case string:
		return v
	case map[string]interface{}:
		if id, ok := v["id"].(string); ok {
			return id
		}
	}

	return ""
}

// SubjectID returns `credentialSubject.id`, handling both object and
// single-element array forms of `credentialSubject`.
func (c *Credential) SubjectID() string {
	subj := c.Claims["credentialSubject"]

	switch v := subj.(type) {
	case map[string]interface{}:
		if id, ok := v["id"].(string); ok {
			return id
		}
	case []interface{}:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]interface{}); ok {
				if id, ok := m["id"].(string); ok {
					return id
				}
			}
		}
	}

	return ""
}

// DeepCopy returns a structurally independent copy of the credential's
// claims, for handlers (LimitDisclosure) that must project without
// mutating the original.
func (c *Credential) DeepCopy() *Credential {
	raw, err := json.Marshal(c.Claims)
	if err != nil {
		// Claims were already successfully decoded from JSON once;
		// re-marshaling the same in-memory structure cannot fail.
		panic(errors.Wrap(err, "unreachable: re-marshal of decoded claims failed"))
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		panic(errors.Wrap(err, "unreachable: re-unmarshal of decoded claims failed"))
	}

	cp := *c
	cp.Claims = claims

	return &cp
}
