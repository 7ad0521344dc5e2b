package exchange_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identity-foundation/pex-go/credential"
	"github.com/identity-foundation/pex-go/definition"
	"github.com/identity-foundation/pex-go/exchange"
	"github.com/identity-foundation/pex-go/filter"
)

func jsonLD(claims map[string]interface{}, proofType string) *credential.Credential {
	return &credential.Credential{Envelope: credential.EnvelopeJSONLD, Claims: claims, ProofAlgOrType: proofType}
}

// S1 — age predicate, preferred; limit disclosure required with an
// allowed suite; the disclosed subject drops "etc" and age becomes true.
func TestAgePredicateLimitDisclosure(t *testing.T) {
	minimum := 18.0

	pd := &definition.PresentationDefinition{
		ID: "pd-1",
		InputDescriptors: []*definition.InputDescriptor{
			{
				ID: "age-descriptor",
				Constraints: &definition.Constraints{
					LimitDisclosure: definition.Required,
					Fields: []*definition.Field{
						{
							Path:      []string{"$.credentialSubject.age"},
							Filter:    &filter.Filter{Type: "number", Minimum: numString(minimum)},
							Predicate: definition.Preferred,
						},
					},
				},
			},
		},
	}

	vc := jsonLD(map[string]interface{}{
		"credentialSubject": map[string]interface{}{
			"id":  "did:x:1",
			"age": 25.0,
			"etc": "hidden",
		},
	}, "BbsBlsSignature2020")

	client := exchange.NewClient(pd, []*credential.Credential{vc},
		exchange.WithLimitDisclosureSignatureSuites("BbsBlsSignature2020"),
		exchange.WithUUIDSource(func() string { return "fixed-id" }),
	)

	results := client.Evaluate()

	require.Equal(t, exchange.StatusInfo, results.AreRequiredCredentialsPresent)
	require.Len(t, results.VerifiableCredential, 1)

	subject := results.VerifiableCredential[0].Claims["credentialSubject"].(map[string]interface{})
	_, hasEtc := subject["etc"]
	assert.False(t, hasEtc)
	assert.Equal(t, true, subject["age"])
}

// S3 — subject_is_issuer required.
func TestSubjectIsIssuerRequired(t *testing.T) {
	pd := &definition.PresentationDefinition{
		ID: "pd-3",
		InputDescriptors: []*definition.InputDescriptor{
			{
				ID: "self-issued",
				Constraints: &definition.Constraints{
					SubjectIsIssuer: definition.Required,
				},
			},
		},
	}

	matching := jsonLD(map[string]interface{}{
		"issuer":            "did:x:1",
		"credentialSubject": map[string]interface{}{"id": "did:x:1"},
	}, "")

	client := exchange.NewClient(pd, []*credential.Credential{matching})
	results := client.Evaluate()
	require.Equal(t, exchange.StatusInfo, results.AreRequiredCredentialsPresent)

	mismatched := jsonLD(map[string]interface{}{
		"issuer":            "did:x:2",
		"credentialSubject": map[string]interface{}{"id": "did:x:1"},
	}, "")

	client2 := exchange.NewClient(pd, []*credential.Credential{mismatched})
	results2 := client2.Evaluate()
	require.Equal(t, exchange.StatusError, results2.AreRequiredCredentialsPresent)
}

// S4 — pick rule with min:2 max:3 over 4 descriptors, 3 satisfiable.
func TestPickRuleRange(t *testing.T) {
	descriptors := make([]*definition.InputDescriptor, 4)

	for i := 0; i < 4; i++ {
		descriptors[i] = &definition.InputDescriptor{
			ID:    idFor(i),
			Group: []string{"A"},
			Constraints: &definition.Constraints{
				Fields: []*definition.Field{
					{Path: []string{"$.credentialSubject." + idFor(i)}},
				},
			},
		}
	}

	pd := &definition.PresentationDefinition{
		ID:               "pd-4",
		InputDescriptors: descriptors,
		SubmissionRequirements: []*definition.SubmissionRequirement{
			{Name: "pick-some", Rule: definition.RulePick, From: "A", Min: 2, Max: 3},
		},
	}

	vcs := []*credential.Credential{
		jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"d0": "v"}}, ""),
		jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"d1": "v"}}, ""),
		jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"d2": "v"}}, ""),
	}

	client := exchange.NewClient(pd, vcs)
	results := client.Evaluate()

	require.NotNil(t, results.Value)
	assert.Len(t, results.Value.DescriptorMap, 3)
	assert.Equal(t, exchange.StatusInfo, results.AreRequiredCredentialsPresent)
}

// S5 — limit disclosure required, unsupported suite.
func TestLimitDisclosureUnsupportedSuite(t *testing.T) {
	pd := &definition.PresentationDefinition{
		ID: "pd-5",
		InputDescriptors: []*definition.InputDescriptor{
			{
				ID: "disclose",
				Constraints: &definition.Constraints{
					LimitDisclosure: definition.Required,
					Fields: []*definition.Field{
						{Path: []string{"$.credentialSubject.name"}},
					},
				},
			},
		},
	}

	vc := jsonLD(map[string]interface{}{
		"credentialSubject": map[string]interface{}{"id": "did:x:1", "name": "Alice"},
	}, "Ed25519Signature2018")

	client := exchange.NewClient(pd, []*credential.Credential{vc},
		exchange.WithLimitDisclosureSignatureSuites("BbsBlsSignature2020"),
	)

	results := client.Evaluate()
	assert.Equal(t, exchange.StatusError, results.AreRequiredCredentialsPresent)
}

// S6 — filter type mismatch: value is a numeric string, filter wants an
// integer.
func TestFilterTypeMismatch(t *testing.T) {
	pd := &definition.PresentationDefinition{
		ID: "pd-6",
		InputDescriptors: []*definition.InputDescriptor{
			{
				ID: "integer-age",
				Constraints: &definition.Constraints{
					Fields: []*definition.Field{
						{
							Path:   []string{"$.credentialSubject.age"},
							Filter: &filter.Filter{Type: "integer"},
						},
					},
				},
			},
		},
	}

	vc := jsonLD(map[string]interface{}{
		"credentialSubject": map[string]interface{}{"id": "did:x:1", "age": "25"},
	}, "")

	client := exchange.NewClient(pd, []*credential.Credential{vc})
	results := client.Evaluate()

	assert.Equal(t, exchange.StatusError, results.AreRequiredCredentialsPresent)
	require.NotEmpty(t, results.Errors)
}

// SameSubject: two descriptors bound into one group via shared field IDs,
// each satisfiable by exactly one of the two credentials; divergent subject
// IDs across the credentials assigned to them must fail synthesis, agreeing
// subject IDs must succeed.
func TestSameSubjectDivergenceRejectsSubmission(t *testing.T) {
	pd := &definition.PresentationDefinition{
		ID: "pd-same-subject",
		InputDescriptors: []*definition.InputDescriptor{
			{
				ID: "d0",
				Constraints: &definition.Constraints{
					Fields: []*definition.Field{
						{ID: "f0", Path: []string{"$.credentialSubject.degree"}},
					},
					SameSubject: []*definition.Holder{
						{FieldIDs: []string{"f0", "f1"}, Directive: definition.Required},
					},
				},
			},
			{
				ID: "d1",
				Constraints: &definition.Constraints{
					Fields: []*definition.Field{
						{ID: "f1", Path: []string{"$.credentialSubject.license"}},
					},
				},
			},
		},
	}

	divergent := []*credential.Credential{
		jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"id": "did:x:1", "degree": "BSc"}}, ""),
		jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"id": "did:x:2", "license": "B"}}, ""),
	}

	client := exchange.NewClient(pd, divergent)
	results := client.Evaluate()
	assert.Equal(t, exchange.StatusError, results.AreRequiredCredentialsPresent)
	assert.Nil(t, results.Value)

	agreeing := []*credential.Credential{
		jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"id": "did:x:1", "degree": "BSc"}}, ""),
		jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"id": "did:x:1", "license": "B"}}, ""),
	}

	client2 := exchange.NewClient(pd, agreeing)
	results2 := client2.Evaluate()
	require.NotNil(t, results2.Value)
	assert.Equal(t, exchange.StatusInfo, results2.AreRequiredCredentialsPresent)
}

// A caller-supplied presentationSubmission is validated, not replaced.
func TestSuppliedPresentationSubmissionIsValidatedNotRegenerated(t *testing.T) {
	pd := &definition.PresentationDefinition{
		ID: "pd-supplied",
		InputDescriptors: []*definition.InputDescriptor{
			{
				ID: "d0",
				Constraints: &definition.Constraints{
					Fields: []*definition.Field{{Path: []string{"$.credentialSubject.name"}}},
				},
			},
		},
	}

	vc := jsonLD(map[string]interface{}{"credentialSubject": map[string]interface{}{"name": "Alice"}}, "")

	supplied := &exchange.PresentationSubmission{
		ID:           "caller-chosen-id",
		DefinitionID: pd.ID,
		DescriptorMap: []*exchange.SubmissionDescriptor{
			{ID: "d0", Format: "ldp_vc", Path: "$.verifiableCredential[0]"},
		},
	}

	client := exchange.NewClient(pd, []*credential.Credential{vc}, exchange.WithPresentationSubmission(supplied))
	results := client.Evaluate()

	require.NotNil(t, results.Value)
	assert.Same(t, supplied, results.Value)
	assert.Equal(t, "caller-chosen-id", results.Value.ID)

	// referencing an input descriptor that doesn't exist is rejected
	bogus := &exchange.PresentationSubmission{
		ID:           "x",
		DefinitionID: pd.ID,
		DescriptorMap: []*exchange.SubmissionDescriptor{
			{ID: "no-such-descriptor", Format: "ldp_vc", Path: "$.verifiableCredential[0]"},
		},
	}

	client2 := exchange.NewClient(pd, []*credential.Credential{vc}, exchange.WithPresentationSubmission(bogus))
	results2 := client2.Evaluate()
	assert.Equal(t, exchange.StatusError, results2.AreRequiredCredentialsPresent)
	assert.Nil(t, results2.Value)

	// generatePresentationSubmission forces a fresh submission even when
	// one was supplied.
	client3 := exchange.NewClient(pd, []*credential.Credential{vc},
		exchange.WithPresentationSubmission(supplied),
		exchange.WithGeneratePresentationSubmission(),
		exchange.WithUUIDSource(func() string { return "regenerated-id" }),
	)
	results3 := client3.Evaluate()
	require.NotNil(t, results3.Value)
	assert.Equal(t, "regenerated-id", results3.Value.ID)
}

func idFor(i int) string {
	return "d" + strconv.Itoa(i)
}

func numString(f float64) filter.OneOfNumberString {
	var n filter.OneOfNumberString
	_ = n.UnmarshalJSON([]byte(strconv.FormatFloat(f, 'f', -1, 64)))

	return n
}
