package credential

import (
	"github.com/piprate/json-gold/ld"
)

// SchemaCandidateIRIs collects every IRI a v1 `schema.uri` entry could
// plausibly match (spec.md §4.7): the credential's raw `@context` and
// `type` strings, `credentialSchema.id`, and — for any `@context` entry
// supplied inline as a JSON-LD context object — each type's expanded
// `@id` and nested `@context` IRI. No context is ever fetched over the
// network: a `@context` entry that is a bare URI string is matched
// literally, never dereferenced, per the core's no-network-I/O
// constraint. Grounded on arasia-aries-framework-go's
// filterSchema/typeFoundInContext/getContext.
func SchemaCandidateIRIs(claims map[string]interface{}) map[string]bool {
	out := map[string]bool{}

	addStrings(out, claims["@context"])
	addStrings(out, claims["type"])
	addCredentialSchemaIDs(out, claims["credentialSchema"])

	types := stringsOf(claims["type"])

	for _, rawCtx := range contextObjects(claims["@context"]) {
		ctxObj, err := ld.NewContext(nil, nil).Parse(rawCtx)
		if err != nil {
			continue
		}

		for _, typ := range types {
			for _, iri := range expandedTypeIRIs(typ, ctxObj) {
				out[iri] = true
			}
		}
	}

	return out
}

// expandedTypeIRIs resolves a single `type` term against an already-parsed
// active context, returning its `@id` and, when the term definition
// carries its own nested `@context`, that `@id` re-expanded against it.
func expandedTypeIRIs(typ string, ctxObj *ld.Context) []string {
	td := ctxObj.GetTermDefinition(typ)
	if td == nil {
		return nil
	}

	id, _ := td["@id"].(string)
	if id == "" {
		return nil
	}

	out := []string{id}

	tdCtx, ok := td["@context"].(map[string]interface{})
	if !ok {
		return out
	}

	extended, err := ctxObj.Parse(tdCtx)
	if err != nil {
		return out
	}

	iri, err := extended.ExpandIri(id, false, false, nil, nil)
	if err != nil {
		return out
	}

	return append(out, iri)
}

func addStrings(out map[string]bool, v interface{}) {
	for _, s := range stringsOf(v) {
		out[s] = true
	}
}

func stringsOf(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))

		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

func contextObjects(v interface{}) []map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{t}
	case []interface{}:
		var out []map[string]interface{}

		for _, e := range t {
			if m, ok := e.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}

		return out
	default:
		return nil
	}
}

func addCredentialSchemaIDs(out map[string]bool, v interface{}) {
	switch t := v.(type) {
	case map[string]interface{}:
		if id, ok := t["id"].(string); ok {
			out[id] = true
		}
	case []interface{}:
		for _, e := range t {
			if m, ok := e.(map[string]interface{}); ok {
				if id, ok := m["id"].(string); ok {
					out[id] = true
				}
			}
		}
	}
}
