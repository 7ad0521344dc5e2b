package exchange

// Options models the opts bag from spec §6, with its enumerated effects.
type Options struct {
	// HolderDIDs is the list of DIDs the wallet controls (used by
	// SubjectIsIssuer/IsHolder).
	HolderDIDs []string
	// LimitDisclosureSignatureSuites is the allow-list of proof types
	// that support selective disclosure.
	LimitDisclosureSignatureSuites []string
	// RestrictToFormats is a caller-imposed format allow-list,
	// intersected with the definition's own format allow-list.
	RestrictToFormats []string
	// RestrictToDIDMethods is an allow-list of DID methods for the
	// credential issuer.
	RestrictToDIDMethods []string
	// PresentationSubmission is a pre-existing submission to evaluate
	// against, instead of generating one.
	PresentationSubmission *PresentationSubmission
	// GeneratePresentationSubmission forces generation even when one is
	// embedded in the input.
	GeneratePresentationSubmission bool
	// PresentationSubmissionLocation is PRESENTATION or EXTERNAL.
	PresentationSubmissionLocation SubmissionLocation
	// NewUUID is the deterministic UUID source for submission IDs (spec
	// §1 "a deterministic clock/UUID source").
	NewUUID func() string
}

// SubmissionLocation is where the submission is carried: embedded in the
// presentation body, or alongside it as an external (e.g. DIDComm)
// attachment.
type SubmissionLocation string

const (
	LocationPresentation SubmissionLocation = "PRESENTATION"
	LocationExternal     SubmissionLocation = "EXTERNAL"
)

// Option mutates an Options value; functional-options idiom matching the
// pack's verifiable.CredentialOpt convention.
type Option func(*Options)

// WithHolderDIDs sets the wallet-controlled DIDs.
func WithHolderDIDs(dids ...string) Option {
	return func(o *Options) { o.HolderDIDs = dids }
}

// WithLimitDisclosureSignatureSuites sets the selective-disclosure allow-list.
func WithLimitDisclosureSignatureSuites(suites ...string) Option {
	return func(o *Options) { o.LimitDisclosureSignatureSuites = suites }
}

// WithRestrictToFormats sets a caller-imposed format allow-list.
func WithRestrictToFormats(formats ...string) Option {
	return func(o *Options) { o.RestrictToFormats = formats }
}

// WithRestrictToDIDMethods sets a DID method allow-list.
func WithRestrictToDIDMethods(methods ...string) Option {
	return func(o *Options) { o.RestrictToDIDMethods = methods }
}

// WithPresentationSubmission supplies a pre-existing submission to
// evaluate against.
func WithPresentationSubmission(ps *PresentationSubmission) Option {
	return func(o *Options) { o.PresentationSubmission = ps }
}

// WithGeneratePresentationSubmission forces synthesis even if a submission
// is already embedded.
func WithGeneratePresentationSubmission() Option {
	return func(o *Options) { o.GeneratePresentationSubmission = true }
}

// WithPresentationSubmissionLocation sets where the submission is carried.
func WithPresentationSubmissionLocation(loc SubmissionLocation) Option {
	return func(o *Options) { o.PresentationSubmissionLocation = loc }
}

// WithUUIDSource overrides the submission ID source, for deterministic
// tests (spec §8 invariant 5).
func WithUUIDSource(f func() string) Option {
	return func(o *Options) { o.NewUUID = f }
}

// NewOptions builds an Options from functional options, applying defaults.
func NewOptions(opts ...Option) Options {
	o := Options{PresentationSubmissionLocation: LocationPresentation}
	for _, apply := range opts {
		apply(&o)
	}

	if o.NewUUID == nil {
		o.NewUUID = defaultUUID
	}

	return o
}
