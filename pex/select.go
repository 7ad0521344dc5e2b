package pex

import (
	"github.com/identity-foundation/pex-go/credential"
	"github.com/identity-foundation/pex-go/definition"
	"github.com/identity-foundation/pex-go/exchange"
)

// MatchedInputDescriptor reports which credentials passed every handler in
// the chain for one descriptor, independent of whether synthesis could
// use them in a single submission — grounded on arasia-aries-framework-go's
// MatchedInputDescriptor (pkg/doc/presexch/definition.go).
type MatchedInputDescriptor struct {
	ID         string
	MatchedVCs []*credential.Credential
}

// SelectResults is the output of select_from (spec.md §6): the per-descriptor
// candidate matches a wallet UI would offer the user, plus the diagnostics
// the handler chain recorded.
type SelectResults struct {
	Matches  []*MatchedInputDescriptor
	Warnings []string
	Errors   []string
}

// SelectFrom evaluates vcs against pd and reports, per descriptor, every
// credential that satisfied every handler — the candidate set a wallet
// shows the user, distinct from evaluate_credentials' single synthesized
// submission.
func SelectFrom(pd *definition.PresentationDefinition, vcs []*credential.Credential, opts ...Option) *SelectResults {
	client := exchange.NewClient(pd, vcs, opts...)
	results := client.Evaluate()

	byDescriptor := map[int][]int{}
	for _, pair := range client.CandidatePairs() {
		byDescriptor[pair[0]] = append(byDescriptor[pair[0]], pair[1])
	}

	out := &SelectResults{Warnings: results.Warnings, Errors: results.Errors}

	for i, d := range pd.InputDescriptors {
		matched := &MatchedInputDescriptor{ID: d.ID}

		for _, ci := range byDescriptor[i] {
			matched.MatchedVCs = append(matched.MatchedVCs, vcs[ci])
		}

		out.Matches = append(out.Matches, matched)
	}

	return out
}
