package exchange

import (
	"github.com/identity-foundation/pex-go/definition"
	"github.com/identity-foundation/pex-go/filter"
	"github.com/identity-foundation/pex-go/jsonpathx"
)

const evaluatorFilter = "FilterEvaluation"

// filterHandler implements InputDescriptorFilter (spec §4.3): for each
// field, in order, try each JSONPath alternative until one yields a value,
// then run its filter (if any).
func filterHandler(c *Client) {
	for i, d := range c.Definition.InputDescriptors {
		for j, vc := range c.Credentials {
			if d.Constraints == nil || len(d.Constraints.Fields) == 0 {
				c.Log.Append(HandlerCheckResult{
					DescriptorIndex: i,
					CredentialIndex: j,
					EvaluatorName:   evaluatorFilter,
					Status:          StatusInfo,
					Message:         "descriptor has no fields",
				})

				continue
			}

			for fi, f := range d.Constraints.Fields {
				evaluateField(c, i, j, fi, f, vc.Claims)
			}
		}
	}
}

func evaluateField(c *Client, i, j, fi int, f *definition.Field, claims map[string]interface{}) {
	path, value, found := firstMatch(f.Path, claims)

	if !found {
		status := StatusError
		if f.Optional {
			status = StatusInfo
		}

		c.Log.Append(HandlerCheckResult{
			DescriptorIndex: i,
			CredentialIndex: j,
			EvaluatorName:   evaluatorFilter,
			Status:          status,
			Message:         "input candidate does not contain property",
			Payload:         fieldPayload(fi, f, nil),
		})

		return
	}

	if f.Filter == nil {
		c.Log.Append(HandlerCheckResult{
			DescriptorIndex: i,
			CredentialIndex: j,
			EvaluatorName:   evaluatorFilter,
			Status:          StatusInfo,
			Message:         "input candidate contains property",
			Payload:         fieldPayload(fi, f, pathValue(path, value)),
		})

		return
	}

	result := filter.Evaluate(f.Filter, value)

	if !result.Matched {
		c.Log.Append(HandlerCheckResult{
			DescriptorIndex: i,
			CredentialIndex: j,
			EvaluatorName:   evaluatorFilter,
			Status:          StatusError,
			Message:         "input candidate failed filter evaluation at " + path,
			Payload:         fieldPayload(fi, f, pathValue(path, value)),
		})

		return
	}

	c.Log.Append(HandlerCheckResult{
		DescriptorIndex: i,
		CredentialIndex: j,
		EvaluatorName:   evaluatorFilter,
		Status:          StatusInfo,
		Message:         "input candidate valid for presentation submission",
		Payload:         fieldPayload(fi, f, pathValue(path, result.Value)),
	})
}

// firstMatch tries every JSONPath alternative in order and returns the
// first one that yields at least one hit.
func firstMatch(paths []string, claims map[string]interface{}) (path string, value interface{}, found bool) {
	for _, p := range paths {
		hits, err := jsonpathx.Extract(claims, p)
		if err != nil || len(hits) == 0 {
			continue
		}

		return hits[0].Path, hits[0].Value, true
	}

	return "", nil, false
}

func pathValue(path string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"path": path, "value": value}
}

func fieldPayload(fieldIndex int, f *definition.Field, result map[string]interface{}) map[string]interface{} {
	p := map[string]interface{}{
		"field_index": fieldIndex,
		"predicate":   string(f.Predicate),
	}

	if result != nil {
		p["result"] = result
	}

	return p
}
