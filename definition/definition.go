// Package definition models the Presentation Definition document (spec
// §3) after version normalization: a verifier's machine-readable
// requirements, already collapsed from PE v1/v2 into one internal shape by
// an upstream step (spec §1 "Out of scope: Version discovery"). The
// definition is treated as read-only once handed to the evaluation core
// (spec §9, Open question).
package definition

import (
	"github.com/identity-foundation/pex-go/filter"
)

// Version tags which PE wire format the definition was normalized from.
// Several handlers (URI/Schema vs. Format) are version-specific.
type Version string

const (
	V1 Version = "v1"
	V2 Version = "v2"
)

// Preference is a soft ("preferred") or hard ("required") directive.
type Preference string

const (
	Required Preference = "required"
	Preferred Preference = "preferred"
	Absent    Preference = ""
)

func (p Preference) IsRequired() bool  { return p == Required }
func (p Preference) IsPreferred() bool { return p == Preferred }
func (p Preference) IsSet() bool       { return p != Absent }

// Rule is a submission requirement selection rule.
type Rule string

const (
	RuleAll  Rule = "all"
	RulePick Rule = "pick"
)

// Schema is a v1 input descriptor schema entry.
type Schema struct {
	URI      string `json:"uri" validate:"required"`
	Required bool   `json:"required,omitempty"`
}

// Field is one constraint field: an ordered list of JSONPath alternatives,
// an optional filter, and an optional predicate conversion (spec §3
// "Field").
type Field struct {
	ID        string         `json:"id,omitempty"`
	Path      []string       `json:"path" validate:"required,min=1"`
	Purpose   string         `json:"purpose,omitempty"`
	Filter    *filter.Filter `json:"filter,omitempty"`
	Predicate Preference     `json:"predicate,omitempty"`
	Optional  bool           `json:"optional,omitempty"`
}

// Validate checks the Field-level invariant from spec §3: if predicate is
// set, filter must be set.
func (f *Field) Validate() error {
	if f.Predicate.IsSet() && f.Filter == nil {
		return errFieldPredicateNeedsFilter
	}

	return nil
}

// Holder describes a same_subject/is_holder grouping (spec §4.6).
type Holder struct {
	FieldIDs  []string   `json:"field_id" validate:"required,min=1"`
	Directive Preference `json:"directive,omitempty"`
}

// Constraints is an input descriptor's Constraints block (spec §3).
type Constraints struct {
	LimitDisclosure Preference `json:"limit_disclosure,omitempty"`
	SubjectIsIssuer Preference `json:"subject_is_issuer,omitempty"`
	IsHolder        []*Holder  `json:"is_holder,omitempty"`
	SameSubject     []*Holder  `json:"same_subject,omitempty"`
	Fields          []*Field   `json:"fields,omitempty"`
}

// Format is a claim-format allow-list, keyed by the registered Claim
// Format Designation (jwt_vc, ldp_vc, jwt_vp, ldp_vp, ...).
type Format map[string]*FormatValue

// FormatValue names the acceptable algs (JWT-based formats) or proof
// types (LDP-based formats) for one format entry.
type FormatValue struct {
	Alg       []string `json:"alg,omitempty"`
	ProofType []string `json:"proof_type,omitempty"`
}

// InputDescriptor is one requirement within a Presentation Definition
// (spec §3).
type InputDescriptor struct {
	ID          string       `json:"id" validate:"required"`
	Group       []string     `json:"group,omitempty"`
	Name        string       `json:"name,omitempty"`
	Purpose     string       `json:"purpose,omitempty"`
	Schema      []*Schema    `json:"schema,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
	Format      Format       `json:"format,omitempty"`
}

// InGroup reports whether the descriptor belongs to the named group.
func (d *InputDescriptor) InGroup(group string) bool {
	for _, g := range d.Group {
		if g == group {
			return true
		}
	}

	return false
}

// SubmissionRequirement combines descriptor groups into higher-level
// selection logic (spec §3, §4.9).
type SubmissionRequirement struct {
	Name       string                    `json:"name,omitempty"`
	Purpose    string                    `json:"purpose,omitempty"`
	Rule       Rule                      `json:"rule" validate:"required"`
	Count      int                       `json:"count,omitempty"`
	Min        int                       `json:"min,omitempty"`
	Max        int                       `json:"max,omitempty"`
	From       string                    `json:"from,omitempty"`
	FromNested []*SubmissionRequirement  `json:"from_nested,omitempty"`
}

// PresentationDefinition is the normalized, version-agnostic definition
// document (spec §3).
type PresentationDefinition struct {
	ID                     string                    `json:"id" validate:"required"`
	Name                   string                    `json:"name,omitempty"`
	Purpose                string                    `json:"purpose,omitempty"`
	Format                 Format                    `json:"format,omitempty"`
	SubmissionRequirements []*SubmissionRequirement  `json:"submission_requirements,omitempty"`
	InputDescriptors       []*InputDescriptor        `json:"input_descriptors" validate:"required,min=1"`
	Version                Version                   `json:"-"`
}

// Descriptor looks up an input descriptor by ID.
func (pd *PresentationDefinition) Descriptor(id string) *InputDescriptor {
	for _, d := range pd.InputDescriptors {
		if d.ID == id {
			return d
		}
	}

	return nil
}

// DescriptorsInGroup returns every input descriptor tagged with group.
func (pd *PresentationDefinition) DescriptorsInGroup(group string) []*InputDescriptor {
	var out []*InputDescriptor

	for _, d := range pd.InputDescriptors {
		if d.InGroup(group) {
			out = append(out, d)
		}
	}

	return out
}
