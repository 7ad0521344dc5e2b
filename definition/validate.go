package definition

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/identity-foundation/pex-go/internal/util"
)

var errFieldPredicateNeedsFilter = errors.New("field has a predicate but no filter")

// ValidationReport is the result of validate_definition / validate_submission
// (spec §6): a pass/fail report produced independently of evaluation.
type ValidationReport struct {
	Valid  bool
	Errors []string
}

func report(errs []string) ValidationReport {
	return ValidationReport{Valid: len(errs) == 0, Errors: errs}
}

// Validate checks the structural invariants of spec §3 against pd:
//   - every InputDescriptor.ID is unique
//   - every Field with a predicate also has a filter
//   - every SubmissionRequirement references a group present on at least
//     one descriptor, or a nested requirement
func Validate(pd *PresentationDefinition) ValidationReport {
	var errs []string

	if err := util.NewValidator().Struct(pd); err != nil {
		errs = append(errs, err.Error())
	}

	seen := map[string]bool{}

	for _, d := range pd.InputDescriptors {
		if seen[d.ID] {
			errs = append(errs, fmt.Sprintf("duplicate input descriptor id %q", d.ID))
		}

		seen[d.ID] = true

		if d.Constraints == nil {
			continue
		}

		for i, f := range d.Constraints.Fields {
			if err := f.Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("descriptor %s field[%d]: %s", d.ID, i, err))
			}
		}
	}

	for _, sr := range pd.SubmissionRequirements {
		errs = append(errs, validateRequirement(sr, pd)...)
	}

	return report(errs)
}

func validateRequirement(sr *SubmissionRequirement, pd *PresentationDefinition) []string {
	var errs []string

	if sr.From != "" {
		if len(pd.DescriptorsInGroup(sr.From)) == 0 {
			errs = append(errs, fmt.Sprintf("submission requirement %q references unknown group %q", sr.Name, sr.From))
		}
	} else if len(sr.FromNested) == 0 {
		errs = append(errs, fmt.Sprintf("submission requirement %q has neither from nor from_nested", sr.Name))
	}

	for _, nested := range sr.FromNested {
		errs = append(errs, validateRequirement(nested, pd)...)
	}

	return errs
}
