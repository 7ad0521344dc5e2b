package exchange

import (
	"github.com/identity-foundation/pex-go/credential"
)

// EvaluationResults is the client's output (spec §3 "EvaluationResults"):
// the synthesized submission (if any), the accumulated diagnostics, the
// credentials in descriptor_map order (post limit-disclosure projection),
// and the aggregated outcome.
type EvaluationResults struct {
	Value                         *PresentationSubmission
	Warnings                      []string
	Errors                        []string
	VerifiableCredential          []*credential.Credential
	AreRequiredCredentialsPresent Status
}
