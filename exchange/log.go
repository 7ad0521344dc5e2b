// Package exchange implements the evaluation handler chain, the append-only
// result log, the client that owns and runs the chain, and the selection /
// submission synthesis built on top of its output (spec §2 components 4-7).
package exchange

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/identity-foundation/pex-go/internal/util"
)

// Status is a HandlerCheckResult severity (spec §3 "HandlerCheckResult").
type Status string

const (
	StatusInfo  Status = "info"
	StatusWarn  Status = "warn"
	StatusError Status = "error"
)

// severity ranks a Status for the "max severity wins" invariant (spec §3,
// §8 invariant 1): error > warn > info.
func (s Status) severity() int {
	switch s {
	case StatusError:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}

// worseOf returns whichever of a, b has higher severity.
func worseOf(a, b Status) Status {
	if b.severity() > a.severity() {
		return b
	}

	return a
}

// HandlerCheckResult is one entry appended by a handler (spec §3).
type HandlerCheckResult struct {
	DescriptorIndex int
	CredentialIndex int
	EvaluatorName   string
	Status          Status
	Message         string
	Payload         map[string]interface{}
}

// InputDescriptorPath is the JSONPath rooted at the definition for this
// result's descriptor, e.g. "$.input_descriptors[2]".
func (r HandlerCheckResult) InputDescriptorPath() string {
	return fmt.Sprintf("$.input_descriptors[%d]", r.DescriptorIndex)
}

// VerifiableCredentialPath is the JSONPath rooted at the credential set for
// this result's credential, e.g. "$.verifiableCredential[0]".
func (r HandlerCheckResult) VerifiableCredentialPath() string {
	return fmt.Sprintf("$.verifiableCredential[%d]", r.CredentialIndex)
}

// ResultLog is the append-only sequence of HandlerCheckResult entries that
// the handler chain reads and appends to (spec §2 component "Handler
// Result Log"). It is mutable only during evaluation and discarded once
// EvaluationResults are emitted (spec §3 "Lifecycle").
type ResultLog struct {
	entries []HandlerCheckResult
}

// Append records one result, preserving (descriptor index, credential
// index) declaration order within a handler (spec §5 "Ordering
// guarantees"), and traces it at debug level with the fields SPEC_FULL.md
// promises for handler chain tracing: which evaluator, which descriptor,
// which credential, and the verdict it reached.
func (l *ResultLog) Append(r HandlerCheckResult) {
	l.entries = append(l.entries, r)

	util.Trace(logrus.Fields{
		"evaluator":  r.EvaluatorName,
		"descriptor": r.DescriptorIndex,
		"credential": r.CredentialIndex,
		"status":     string(r.Status),
	}, r.Message)
}

// All returns every recorded entry, in append order.
func (l *ResultLog) All() []HandlerCheckResult {
	return l.entries
}

// ForPair returns every entry recorded for (descriptorIndex, credentialIndex).
func (l *ResultLog) ForPair(descriptorIndex, credentialIndex int) []HandlerCheckResult {
	var out []HandlerCheckResult

	for _, e := range l.entries {
		if e.DescriptorIndex == descriptorIndex && e.CredentialIndex == credentialIndex {
			out = append(out, e)
		}
	}

	return out
}

// ForEvaluator returns every entry recorded by the named evaluator, across
// all pairs, in append order.
func (l *ResultLog) ForEvaluator(evaluator string) []HandlerCheckResult {
	var out []HandlerCheckResult

	for _, e := range l.entries {
		if e.EvaluatorName == evaluator {
			out = append(out, e)
		}
	}

	return out
}

// ForPairAndEvaluator returns entries for (descriptorIndex, credentialIndex)
// recorded by the named evaluator.
func (l *ResultLog) ForPairAndEvaluator(descriptorIndex, credentialIndex int, evaluator string) []HandlerCheckResult {
	var out []HandlerCheckResult

	for _, e := range l.ForPair(descriptorIndex, credentialIndex) {
		if e.EvaluatorName == evaluator {
			out = append(out, e)
		}
	}

	return out
}

// FinalStatus computes the aggregated status for (descriptorIndex,
// credentialIndex): the maximum severity across every entry recorded for
// that pair (spec §3 invariant, §8 invariant 1). A pair with no entries at
// all is reported as StatusInfo (vacuously satisfied, spec §4.3 "no
// fields" case).
func (l *ResultLog) FinalStatus(descriptorIndex, credentialIndex int) Status {
	status := StatusInfo
	seen := false

	for _, e := range l.ForPair(descriptorIndex, credentialIndex) {
		seen = true
		status = worseOf(status, e.Status)
	}

	if !seen {
		return StatusInfo
	}

	return status
}
