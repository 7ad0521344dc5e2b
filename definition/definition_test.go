package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identity-foundation/pex-go/filter"
)

func TestPreference(t *testing.T) {
	assert.True(t, Required.IsRequired())
	assert.True(t, Required.IsSet())
	assert.False(t, Required.IsPreferred())

	assert.True(t, Preferred.IsPreferred())
	assert.True(t, Preferred.IsSet())
	assert.False(t, Preferred.IsRequired())

	assert.False(t, Absent.IsSet())
}

func TestFieldValidate(t *testing.T) {
	f := &Field{Path: []string{"$.credentialSubject.age"}, Predicate: Preferred}
	assert.Error(t, f.Validate())

	f.Filter = &filter.Filter{Type: "number"}
	assert.NoError(t, f.Validate())
}

func TestInputDescriptorInGroup(t *testing.T) {
	d := &InputDescriptor{ID: "d1", Group: []string{"A", "B"}}
	assert.True(t, d.InGroup("A"))
	assert.False(t, d.InGroup("C"))
}

func TestPresentationDefinitionLookups(t *testing.T) {
	pd := &PresentationDefinition{
		ID: "pd-1",
		InputDescriptors: []*InputDescriptor{
			{ID: "d1", Group: []string{"A"}},
			{ID: "d2", Group: []string{"B"}},
		},
	}

	require.NotNil(t, pd.Descriptor("d1"))
	assert.Nil(t, pd.Descriptor("missing"))
	assert.Len(t, pd.DescriptorsInGroup("A"), 1)
	assert.Empty(t, pd.DescriptorsInGroup("C"))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder("pd-builder")
	assert.True(t, b.IsEmpty())

	b = b.AddInputDescriptor(&InputDescriptor{ID: "d1"})
	assert.False(t, b.IsEmpty())

	pd, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "pd-builder", pd.ID)
}

func TestBuilderEmptyFails(t *testing.T) {
	_, err := NewBuilder("").Build()
	assert.ErrorIs(t, err, ErrBuilderEmpty)
}

func TestValidateDuplicateDescriptorID(t *testing.T) {
	pd := &PresentationDefinition{
		ID: "pd-dup",
		InputDescriptors: []*InputDescriptor{
			{ID: "d1"},
			{ID: "d1"},
		},
	}

	report := Validate(pd)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Errors)
}

func TestValidateSubmissionRequirementUnknownGroup(t *testing.T) {
	pd := &PresentationDefinition{
		ID: "pd-req",
		InputDescriptors: []*InputDescriptor{
			{ID: "d1", Group: []string{"A"}},
		},
		SubmissionRequirements: []*SubmissionRequirement{
			{Name: "req", Rule: RuleAll, From: "missing-group"},
		},
	}

	report := Validate(pd)
	assert.False(t, report.Valid)
}
