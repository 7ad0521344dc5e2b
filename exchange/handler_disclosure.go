package exchange

import (
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/sjson"

	"github.com/identity-foundation/pex-go/cryptosuite"
)

const evaluatorLimitDisclosure = "LimitDisclosure"

// mandatoryTopLevelFields survive limit-disclosure projection regardless
// of which paths were disclosed (spec §4.5).
var mandatoryTopLevelFields = []string{
	"@context", "type", "id", "issuer", "issuanceDate", "expirationDate",
	"credentialSchema", "credentialStatus",
}

// disclosureHandler implements LimitDisclosure (spec §4.5): when a
// descriptor requests limit_disclosure and the credential's proof type is
// on the allow-list, it replaces the credential in place with a
// projection containing only the disclosed claims.
func disclosureHandler(c *Client) {
	allow := cryptosuite.NewAllowList(c.Options.LimitDisclosureSignatureSuites...)

	for i, d := range c.Definition.InputDescriptors {
		if d.Constraints == nil || !d.Constraints.LimitDisclosure.IsSet() {
			continue
		}

		for j, vc := range c.Credentials {
			if !allow.Allows(vc.ProofAlgOrType) {
				if d.Constraints.LimitDisclosure.IsRequired() {
					c.Log.Append(HandlerCheckResult{
						DescriptorIndex: i,
						CredentialIndex: j,
						EvaluatorName:   evaluatorLimitDisclosure,
						Status:          StatusError,
						Message:         "limit disclosure required but signature suite does not support it",
					})
				}

				continue
			}

			disclosed := disclosedValues(c, i, j)

			projected, err := project(vc.Claims, disclosed)
			if err != nil {
				c.Log.Append(HandlerCheckResult{
					DescriptorIndex: i,
					CredentialIndex: j,
					EvaluatorName:   evaluatorLimitDisclosure,
					Status:          StatusError,
					Message:         "failed to project credential for limit disclosure: " + err.Error(),
				})

				continue
			}

			cp := vc.DeepCopy()
			cp.Claims = projected
			c.Credentials[j] = cp

			paths := make([]string, 0, len(disclosed))
			for p := range disclosed {
				paths = append(paths, p)
			}

			sort.Strings(paths)

			c.Log.Append(HandlerCheckResult{
				DescriptorIndex: i,
				CredentialIndex: j,
				EvaluatorName:   evaluatorLimitDisclosure,
				Status:          StatusInfo,
				Message:         "credential projected to disclosed paths",
				Payload:         map[string]interface{}{"paths": paths},
			})
		}
	}
}

// disclosedValues collects every concrete (path, value) surfaced by
// FilterEvaluation and PredicateRelatedField for (i, j); PredicateRelatedField
// entries are read last so a preferred predicate's boolean-true
// replacement wins over the raw filtered value for the same path (spec
// §8 invariant 3: the original value must never leak).
func disclosedValues(c *Client, i, j int) map[string]interface{} {
	out := map[string]interface{}{}

	for _, evaluator := range []string{evaluatorFilter, evaluatorPredicate} {
		for _, r := range c.Log.ForPairAndEvaluator(i, j, evaluator) {
			result, ok := r.Payload["result"].(map[string]interface{})
			if !ok {
				continue
			}

			path, ok := result["path"].(string)
			if !ok {
				continue
			}

			out[path] = result["value"]
		}
	}

	return out
}

// project rebuilds a credential's claims, keeping the mandatory top-level
// fields verbatim and replacing credentialSubject with only the disclosed
// (path, value) pairs plus the original subject's id, when it has one.
func project(claims map[string]interface{}, disclosed map[string]interface{}) (map[string]interface{}, error) {
	subjectBytes := []byte("{}")

	for p, value := range disclosed {
		suffix, ok := subjectSuffix(p)
		if !ok {
			continue
		}

		updated, err := sjson.SetBytes(subjectBytes, suffix, value)
		if err != nil {
			return nil, err
		}

		subjectBytes = updated
	}

	if subject, ok := claims["credentialSubject"].(map[string]interface{}); ok {
		if id, ok := subject["id"]; ok {
			updated, err := sjson.SetBytes(subjectBytes, "id", id)
			if err == nil {
				subjectBytes = updated
			}
		}
	}

	var projectedSubject map[string]interface{}
	if err := json.Unmarshal(subjectBytes, &projectedSubject); err != nil {
		return nil, err
	}

	out := map[string]interface{}{"credentialSubject": projectedSubject}

	for _, f := range mandatoryTopLevelFields {
		if v, ok := claims[f]; ok {
			out[f] = v
		}
	}

	return out, nil
}

// subjectSuffix converts a literal JSONPath rooted at credentialSubject
// (e.g. "$.credentialSubject.items[0].x") into an sjson dot-path
// ("items.0.x"); ok is false for paths outside credentialSubject.
func subjectSuffix(path string) (string, bool) {
	const prefix = "$.credentialSubject"

	if path == prefix {
		return "", false
	}

	if !strings.HasPrefix(path, prefix+".") && !strings.HasPrefix(path, prefix+"[") {
		return "", false
	}

	rest := strings.TrimPrefix(path, prefix)
	rest = strings.TrimPrefix(rest, ".")
	rest = strings.ReplaceAll(rest, "[", ".")
	rest = strings.ReplaceAll(rest, "]", "")

	return rest, rest != ""
}

