// Package pex exposes the public, language-neutral operations of spec.md
// §6 over the internal definition/credential/exchange packages: the opts
// bag, the PresentationDefinition/VerifiableCredential inputs, and the
// EvaluationResults/PresentationSubmission/PresentationResult outputs.
package pex

import (
	"github.com/identity-foundation/pex-go/exchange"
)

// Options is the opts bag of spec.md §6, aliased from exchange so the
// handler chain and the public API share one definition.
type Options = exchange.Options

// Option mutates an Options value via the functional-options idiom.
type Option = exchange.Option

// SubmissionLocation is PRESENTATION or EXTERNAL (spec.md §6).
type SubmissionLocation = exchange.SubmissionLocation

const (
	LocationPresentation = exchange.LocationPresentation
	LocationExternal     = exchange.LocationExternal
)

var (
	WithHolderDIDs                     = exchange.WithHolderDIDs
	WithLimitDisclosureSignatureSuites = exchange.WithLimitDisclosureSignatureSuites
	WithRestrictToFormats              = exchange.WithRestrictToFormats
	WithRestrictToDIDMethods           = exchange.WithRestrictToDIDMethods
	WithPresentationSubmission         = exchange.WithPresentationSubmission
	WithGeneratePresentationSubmission = exchange.WithGeneratePresentationSubmission
	WithPresentationSubmissionLocation = exchange.WithPresentationSubmissionLocation
	WithUUIDSource                     = exchange.WithUUIDSource
)
