package exchange

import (
	"github.com/identity-foundation/pex-go/credential"
	"github.com/identity-foundation/pex-go/definition"
)

// Client owns the handler chain and the mutable result log for one
// evaluation call (spec §2 component "Evaluation Client"); it is
// re-created per call and never reused (spec §5).
type Client struct {
	Definition  *definition.PresentationDefinition
	Credentials []*credential.Credential
	Options     Options
	Log         ResultLog
}

// NewClient constructs a fresh, stateless evaluation client.
func NewClient(pd *definition.PresentationDefinition, vcs []*credential.Credential, opts ...Option) *Client {
	return &Client{
		Definition:  pd,
		Credentials: append([]*credential.Credential(nil), vcs...),
		Options:     NewOptions(opts...),
	}
}

// chain is the fixed, observable handler order (spec §2 component 5,
// §5 "Ordering guarantees").
var chain = []func(*Client){
	schemaFormatHandler,
	subjectHandler,
	restrictionHandler,
	filterHandler,
	predicateHandler,
	disclosureHandler,
	submissionHandler,
}

// Evaluate runs every handler in order, then synthesizes a submission
// from the resulting candidate pairs (spec §2, §4.9). Constraint failures
// never surface as errors here (spec §7): only a SynthesisError or a
// caller contract violation propagates.
func (c *Client) Evaluate() *EvaluationResults {
	for _, h := range chain {
		h(c)
	}

	results := &EvaluationResults{
		VerifiableCredential:          c.Credentials,
		AreRequiredCredentialsPresent: StatusInfo,
	}

	sub, credOrder, pairs, err := Synthesize(c)
	if err != nil {
		results.AreRequiredCredentialsPresent = StatusError
		results.Errors = append(results.Errors, err.Error())

		for _, r := range c.Log.All() {
			if r.Status == StatusError {
				results.Errors = append(results.Errors, r.Message)
			}
		}

		return results
	}

	results.Value = sub

	projected := make([]*credential.Credential, len(credOrder))
	for k, ci := range credOrder {
		projected[k] = c.Credentials[ci]
	}

	results.VerifiableCredential = projected

	// Only the chosen (descriptor, credential) pairs contribute to the
	// aggregated outcome: a candidate rejected in favor of another
	// credential must not taint a successful submission (spec §4.8-4.9).
	for _, pair := range pairs {
		for _, r := range c.Log.ForPair(pair[0], pair[1]) {
			if r.Status == StatusWarn {
				results.Warnings = append(results.Warnings, r.Message)
			}
		}
	}

	if len(results.Warnings) > 0 {
		results.AreRequiredCredentialsPresent = StatusWarn
	}

	return results
}
