package exchange

const evaluatorPredicate = "PredicateRelatedField"

// predicateHandler implements PredicateRelatedField (spec §4.4): for every
// matched FilterEvaluation entry whose field declared a predicate,
// re-emit it under a new evaluator name, replacing the disclosed value
// with the boolean true when predicate = preferred.
func predicateHandler(c *Client) {
	for _, r := range c.Log.ForEvaluator(evaluatorFilter) {
		if r.Status != StatusInfo || r.Payload == nil {
			continue
		}

		predicate, _ := r.Payload["predicate"].(string)
		if predicate != string(preferenceRequired) && predicate != string(preferencePreferred) {
			continue
		}

		result, ok := r.Payload["result"].(map[string]interface{})
		if !ok {
			continue
		}

		payload := map[string]interface{}{
			"field_index": r.Payload["field_index"],
			"predicate":   predicate,
		}

		projected := map[string]interface{}{"path": result["path"], "value": result["value"]}
		if predicate == string(preferencePreferred) {
			projected["value"] = true
		}

		payload["result"] = projected

		c.Log.Append(HandlerCheckResult{
			DescriptorIndex: r.DescriptorIndex,
			CredentialIndex: r.CredentialIndex,
			EvaluatorName:   evaluatorPredicate,
			Status:          StatusInfo,
			Message:         "input candidate valid for presentation submission",
			Payload:         payload,
		})
	}
}

const (
	preferenceRequired  = "required"
	preferencePreferred = "preferred"
)
