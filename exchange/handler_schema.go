package exchange

import (
	"github.com/identity-foundation/pex-go/credential"
	"github.com/identity-foundation/pex-go/crypto"
	"github.com/identity-foundation/pex-go/definition"
)

const evaluatorSchema = "SchemaEvaluation"

// schemaFormatHandler runs the version-specific descriptor-level check
// (spec §4.7): v1 definitions enforce the descriptor's `schema` URI list,
// v2 definitions enforce the descriptor's (or definition's) `format`
// allow-list against the credential's envelope and proof alg/type.
func schemaFormatHandler(c *Client) {
	for i, d := range c.Definition.InputDescriptors {
		for j, vc := range c.Credentials {
			switch c.Definition.Version {
			case definition.V1:
				checkSchemaURIs(c, i, j, d, vc)
			default:
				checkFormat(c, i, j, d, vc)
			}
		}
	}
}

func checkSchemaURIs(c *Client, i, j int, d *definition.InputDescriptor, vc *credential.Credential) {
	if len(d.Schema) == 0 {
		return
	}

	present := credential.SchemaCandidateIRIs(vc.Claims)

	for _, s := range d.Schema {
		if !s.Required {
			continue
		}

		if !present[s.URI] {
			c.Log.Append(HandlerCheckResult{
				DescriptorIndex: i,
				CredentialIndex: j,
				EvaluatorName:   evaluatorSchema,
				Status:          StatusError,
				Message:         "credential does not satisfy required schema uri " + s.URI,
			})

			return
		}
	}

	c.Log.Append(HandlerCheckResult{
		DescriptorIndex: i,
		CredentialIndex: j,
		EvaluatorName:   evaluatorSchema,
		Status:          StatusInfo,
		Message:         "credential satisfies required schema uris",
	})
}

func checkFormat(c *Client, i, j int, d *definition.InputDescriptor, vc *credential.Credential) {
	allow := d.Format
	if allow == nil {
		allow = c.Definition.Format
	}

	if len(allow) == 0 {
		return
	}

	fv, ok := allow[string(vc.Envelope)]
	if !ok {
		c.Log.Append(HandlerCheckResult{
			DescriptorIndex: i,
			CredentialIndex: j,
			EvaluatorName:   evaluatorSchema,
			Status:          StatusError,
			Message:         "credential envelope " + string(vc.Envelope) + " is not an accepted format",
		})

		return
	}

	accepted := len(fv.Alg) == 0 && len(fv.ProofType) == 0

	// JOSE alg values compare case-insensitively (crypto.SignatureAlgorithm);
	// Linked Data proof type names are canonical identifiers and compare
	// exactly.
	for _, alg := range fv.Alg {
		if crypto.SignatureAlgorithm(alg).EqualFold(vc.ProofAlgOrType) {
			accepted = true
			break
		}
	}

	if !accepted {
		accepted = contains(fv.ProofType, vc.ProofAlgOrType)
	}

	if !accepted {
		c.Log.Append(HandlerCheckResult{
			DescriptorIndex: i,
			CredentialIndex: j,
			EvaluatorName:   evaluatorSchema,
			Status:          StatusError,
			Message:         "credential proof alg/type " + vc.ProofAlgOrType + " is not accepted for format " + string(vc.Envelope),
		})

		return
	}

	c.Log.Append(HandlerCheckResult{
		DescriptorIndex: i,
		CredentialIndex: j,
		EvaluatorName:   evaluatorSchema,
		Status:          StatusInfo,
		Message:         "credential satisfies format constraints",
	})
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}

	return false
}
