package pex

import (
	"github.com/identity-foundation/pex-go/credential"
	"github.com/identity-foundation/pex-go/exchange"
)

const (
	vcContext             = "https://www.w3.org/2018/credentials/v1"
	submissionContext     = "https://identity.foundation/presentation-exchange/submission/v1"
	presentationType      = "VerifiablePresentation"
	presentationSubmitTyp = "PresentationSubmission"
)

// PresentationResult is the output of presentation_from (spec.md §6): the
// assembled (unsigned) Verifiable Presentation body, and, when the caller
// asked for an EXTERNAL submission location, the submission as a side
// value instead of an embedded claim.
type PresentationResult struct {
	Presentation         map[string]interface{}
	PresentationSubmission *exchange.PresentationSubmission
}

// VerifiablePresentationResult is the output of verifiable_presentation_from:
// the same body as PresentationResult, plus whatever the caller's signing
// callback produced.
type VerifiablePresentationResult struct {
	PresentationResult
	Proof interface{}
}

// SigningCallback signs an assembled presentation body and returns the
// proof value to embed; it is the only asynchronous collaborator in the
// evaluation core (spec.md §5).
type SigningCallback func(presentation map[string]interface{}) (interface{}, error)

// Presentation assembles a bare Verifiable Presentation body from an
// ordered list of credentials, honoring presentationSubmissionLocation
// (spec.md §6, SPEC_FULL.md §7): PRESENTATION embeds the submission as a
// claim, EXTERNAL omits it from the body and returns it as a side value
// for an out-of-band attachment (e.g. a DIDComm `~attach`).
func Presentation(vcs []*credential.Credential, sub *exchange.PresentationSubmission, opts Options) *PresentationResult {
	context := []string{vcContext}
	types := []string{presentationType}

	body := map[string]interface{}{}

	location := opts.PresentationSubmissionLocation
	if location == "" {
		location = LocationPresentation
	}

	if sub != nil && location == LocationPresentation {
		context = append(context, submissionContext)
		types = append(types, presentationSubmitTyp)
		body["presentation_submission"] = sub
	}

	body["@context"] = context
	body["type"] = types
	body["verifiableCredential"] = rawCredentials(vcs)

	result := &PresentationResult{Presentation: body}

	if sub != nil && location == LocationExternal {
		result.PresentationSubmission = sub
	}

	return result
}

func rawCredentials(vcs []*credential.Credential) []interface{} {
	out := make([]interface{}, len(vcs))

	for i, vc := range vcs {
		if vc.RawJWT != "" {
			out[i] = vc.RawJWT
			continue
		}

		out[i] = vc.Claims
	}

	return out
}
