package pex_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identity-foundation/pex-go/credential"
	"github.com/identity-foundation/pex-go/definition"
	"github.com/identity-foundation/pex-go/pex"
)

func simplePD() *definition.PresentationDefinition {
	return &definition.PresentationDefinition{
		ID: "pd-pex",
		InputDescriptors: []*definition.InputDescriptor{
			{
				ID: "name-descriptor",
				Constraints: &definition.Constraints{
					Fields: []*definition.Field{
						{Path: []string{"$.credentialSubject.name"}},
					},
				},
			},
		},
	}
}

func TestEvaluateCredentials(t *testing.T) {
	raw := json.RawMessage(`{
		"credentialSubject": {"id": "did:x:1", "name": "Alice"}
	}`)

	results, err := pex.EvaluateCredentials(simplePD(), []json.RawMessage{raw},
		pex.WithUUIDSource(func() string { return "fixed-id" }),
	)

	require.NoError(t, err)
	require.NotNil(t, results.Value)
	assert.Equal(t, "fixed-id", results.Value.ID)
	assert.Len(t, results.Value.DescriptorMap, 1)
}

func TestEvaluatePresentation(t *testing.T) {
	vp := json.RawMessage(`{
		"@context": ["https://www.w3.org/2018/credentials/v1"],
		"type": ["VerifiablePresentation"],
		"verifiableCredential": [
			{"credentialSubject": {"id": "did:x:1", "name": "Bob"}}
		]
	}`)

	results, err := pex.EvaluatePresentation(simplePD(), vp)

	require.NoError(t, err)
	require.NotNil(t, results.Value)
}

func TestPresentationFromHonorsSubmissionLocation(t *testing.T) {
	pd := simplePD()
	vc := &credential.Credential{
		Envelope: credential.EnvelopeJSONLD,
		Claims: map[string]interface{}{
			"credentialSubject": map[string]interface{}{"id": "did:x:1", "name": "Carol"},
		},
	}

	embedded, err := pex.PresentationFrom(pd, []*credential.Credential{vc})
	require.NoError(t, err)
	assert.Contains(t, embedded.Presentation, "presentation_submission")
	assert.Nil(t, embedded.PresentationSubmission)

	external, err := pex.PresentationFrom(pd, []*credential.Credential{vc},
		pex.WithPresentationSubmissionLocation(pex.LocationExternal),
	)
	require.NoError(t, err)
	assert.NotContains(t, external.Presentation, "presentation_submission")
	require.NotNil(t, external.PresentationSubmission)
}

func TestVerifiablePresentationFromEmbedsCallbackResult(t *testing.T) {
	pd := simplePD()
	vc := &credential.Credential{
		Envelope: credential.EnvelopeJSONLD,
		Claims: map[string]interface{}{
			"credentialSubject": map[string]interface{}{"id": "did:x:1", "name": "Dana"},
		},
	}

	vpResult, err := pex.VerifiablePresentationFrom(pd, []*credential.Credential{vc},
		func(presentation map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"type": "Ed25519Signature2020"}, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, "Ed25519Signature2020", vpResult.Proof.(map[string]interface{})["type"])
	assert.Equal(t, vpResult.Proof, vpResult.Presentation["proof"])
}

func TestValidateDefinitionAndSubmission(t *testing.T) {
	pd := simplePD()

	report := pex.ValidateDefinition(pd)
	assert.True(t, report.Valid)

	sub, err := pex.PresentationSubmissionFrom(pd, []*credential.Credential{{
		Envelope: credential.EnvelopeJSONLD,
		Claims: map[string]interface{}{
			"credentialSubject": map[string]interface{}{"id": "did:x:1", "name": "Eve"},
		},
	}})
	require.NoError(t, err)

	subReport := pex.ValidateSubmission(pd, sub)
	assert.True(t, subReport.Valid)

	sub.DefinitionID = "wrong-id"
	badReport := pex.ValidateSubmission(pd, sub)
	assert.False(t, badReport.Valid)
}

func TestValidateSubmissionRejectsMalformedPath(t *testing.T) {
	pd := simplePD()

	sub, err := pex.PresentationSubmissionFrom(pd, []*credential.Credential{{
		Envelope: credential.EnvelopeJSONLD,
		Claims: map[string]interface{}{
			"credentialSubject": map[string]interface{}{"id": "did:x:1", "name": "Frank"},
		},
	}})
	require.NoError(t, err)

	sub.DescriptorMap[0].Path = "$.verifiableCredential["

	report := pex.ValidateSubmission(pd, sub)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "malformed path")
}
