package pex

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/identity-foundation/pex-go/credential"
	"github.com/identity-foundation/pex-go/definition"
	"github.com/identity-foundation/pex-go/exchange"
	"github.com/identity-foundation/pex-go/jsonpathx"
	"github.com/identity-foundation/pex-go/pexerrors"
)

// EvaluateCredentials wraps each raw credential and runs the handler chain
// plus synthesis (spec.md §6 evaluate_credentials).
func EvaluateCredentials(pd *definition.PresentationDefinition, vcs []json.RawMessage, opts ...Option) (*exchange.EvaluationResults, error) {
	wrapped, err := wrapAll(vcs)
	if err != nil {
		return nil, err
	}

	return exchange.NewClient(pd, wrapped, opts...).Evaluate(), nil
}

// EvaluatePresentation unwraps a Verifiable Presentation's embedded
// `verifiableCredential` array and evaluates it the same way
// EvaluateCredentials does (spec.md §6 evaluate_presentation).
func EvaluatePresentation(pd *definition.PresentationDefinition, vp json.RawMessage, opts ...Option) (*exchange.EvaluationResults, error) {
	var envelope struct {
		VerifiableCredential []json.RawMessage `json:"verifiableCredential"`
	}

	if err := json.Unmarshal(vp, &envelope); err != nil {
		return nil, pexerrors.WrapInputError(err, "presentation is not a valid JSON object")
	}

	return EvaluateCredentials(pd, envelope.VerifiableCredential, opts...)
}

// PresentationSubmissionFrom synthesizes a PresentationSubmission for an
// already-selected credential set (spec.md §6 presentation_submission_from):
// the caller is asserting these credentials satisfy pd, but the handler
// chain still runs so the same candidate-pair/synthesis path produces the
// submission evaluate_credentials would.
func PresentationSubmissionFrom(pd *definition.PresentationDefinition, selected []*credential.Credential, opts ...Option) (*exchange.PresentationSubmission, error) {
	sub, _, err := synthesizeFor(pd, selected, opts...)
	return sub, err
}

// PresentationFrom synthesizes a submission for the selected credentials
// and assembles the (unsigned) presentation body around it, embedding the
// limit-disclosure-projected credentials in descriptor_map order, not the
// caller's originals (spec.md §6 presentation_from).
func PresentationFrom(pd *definition.PresentationDefinition, selected []*credential.Credential, opts ...Option) (*PresentationResult, error) {
	options := exchange.NewOptions(opts...)

	sub, projected, err := synthesizeFor(pd, selected, opts...)
	if err != nil {
		return nil, err
	}

	return Presentation(projected, sub, options), nil
}

// synthesizeFor runs the handler chain and synthesis for selected, and
// returns both the submission and the credentials in the order
// descriptor_map references them (post limit-disclosure projection).
func synthesizeFor(pd *definition.PresentationDefinition, selected []*credential.Credential, opts ...Option) (*exchange.PresentationSubmission, []*credential.Credential, error) {
	results := exchange.NewClient(pd, selected, opts...).Evaluate()

	if results.Value == nil {
		if len(results.Errors) > 0 {
			return nil, nil, pexerrors.NewInputError(results.Errors[0])
		}

		return nil, nil, pexerrors.NewInputError("no assignment satisfies the presentation definition")
	}

	return results.Value, results.VerifiableCredential, nil
}

// VerifiablePresentationFrom is PresentationFrom followed by the caller's
// asynchronous signing callback; evaluation completes fully before the
// callback is awaited, and its result is embedded verbatim (spec.md §5,
// §6 verifiable_presentation_from).
func VerifiablePresentationFrom(pd *definition.PresentationDefinition, selected []*credential.Credential, sign SigningCallback, opts ...Option) (*VerifiablePresentationResult, error) {
	presentation, err := PresentationFrom(pd, selected, opts...)
	if err != nil {
		return nil, err
	}

	proof, err := sign(presentation.Presentation)
	if err != nil {
		return nil, errors.Wrap(err, "signing callback failed")
	}

	presentation.Presentation["proof"] = proof

	return &VerifiablePresentationResult{PresentationResult: *presentation, Proof: proof}, nil
}

// ValidateDefinition checks the structural invariants of spec.md §3
// against pd (spec.md §6 validate_definition).
func ValidateDefinition(pd *definition.PresentationDefinition) definition.ValidationReport {
	return definition.Validate(pd)
}

// ValidateSubmission checks that ps references only descriptor IDs that
// exist in pd and that every descriptor_map path is well-formed (spec.md
// §6 validate_submission).
func ValidateSubmission(pd *definition.PresentationDefinition, ps *exchange.PresentationSubmission) definition.ValidationReport {
	var errs []string

	if ps.DefinitionID != pd.ID {
		errs = append(errs, "submission definition_id does not match the presentation definition's id")
	}

	for _, d := range ps.DescriptorMap {
		if pd.Descriptor(d.ID) == nil {
			errs = append(errs, "descriptor_map references unknown input descriptor "+d.ID)
		}

		if d.Path == "" {
			errs = append(errs, "descriptor_map entry for "+d.ID+" has no path")
		} else if err := jsonpathx.CheckSyntax(d.Path); err != nil {
			errs = append(errs, "descriptor_map entry for "+d.ID+" has a malformed path: "+err.Error())
		}
	}

	if len(errs) == 0 {
		return definition.ValidationReport{Valid: true}
	}

	return definition.ValidationReport{Valid: false, Errors: errs}
}

func wrapAll(raws []json.RawMessage) ([]*credential.Credential, error) {
	out := make([]*credential.Credential, len(raws))

	for i, raw := range raws {
		vc, err := credential.Wrap(raw)
		if err != nil {
			return nil, err
		}

		out[i] = vc
	}

	return out, nil
}
