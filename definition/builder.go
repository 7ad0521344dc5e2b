package definition

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/identity-foundation/pex-go/internal/util"
)

// ErrBuilderEmpty is returned when Build is called before any fields were
// set, matching the teacher's CredentialManifestBuilder.Build() contract.
var ErrBuilderEmpty = errors.New("builder cannot be empty")

// Builder assembles a PresentationDefinition incrementally and validates it
// on Build, the same shape as the teacher's CredentialManifestBuilder
// (credential/manifest/builder.go): wrap a pointer, mutate it via chained
// setters, call Build() to validate-and-return.
type Builder struct {
	*PresentationDefinition
}

// NewBuilder starts a PresentationDefinition builder with the given ID.
func NewBuilder(id string) Builder {
	return Builder{PresentationDefinition: &PresentationDefinition{ID: id}}
}

// IsEmpty reports whether nothing but the constructor-supplied ID has been
// set. The ID is seeded by NewBuilder and so never counts as content, the
// same way the teacher's zero-arg NewCredentialManifestBuilder() never has
// a constructor-seeded field to ignore in the first place.
func (b Builder) IsEmpty() bool {
	if b.PresentationDefinition == nil {
		return true
	}

	withoutID := *b.PresentationDefinition
	withoutID.ID = ""

	return reflect.DeepEqual(&withoutID, &PresentationDefinition{})
}

// AddInputDescriptor appends one input descriptor.
func (b Builder) AddInputDescriptor(d *InputDescriptor) Builder {
	b.InputDescriptors = append(b.InputDescriptors, d)
	return b
}

// AddSubmissionRequirement appends one submission requirement.
func (b Builder) AddSubmissionRequirement(sr *SubmissionRequirement) Builder {
	b.SubmissionRequirements = append(b.SubmissionRequirements, sr)
	return b
}

// WithFormat sets the definition-level claim format allow-list.
func (b Builder) WithFormat(f Format) Builder {
	b.Format = f
	return b
}

// Build validates the assembled definition and returns it, logging and
// wrapping any validation failure the way the teacher's builders do
// (util.LoggingErrorMsg).
func (b Builder) Build() (*PresentationDefinition, error) {
	if b.IsEmpty() {
		return nil, ErrBuilderEmpty
	}

	report := Validate(b.PresentationDefinition)
	if !report.Valid {
		return nil, util.LoggingErrorMsg(errors.New(report.Errors[0]), "presentation definition not ready to be built")
	}

	return b.PresentationDefinition, nil
}
