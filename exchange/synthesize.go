package exchange

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/identity-foundation/pex-go/definition"
)

// SubmissionDescriptor maps one satisfied input descriptor to the chosen
// credential's position in the output credential list (spec §4.9 step 3).
type SubmissionDescriptor struct {
	ID     string `json:"id"`
	Format string `json:"format,omitempty"`
	Path   string `json:"path"`
}

// PresentationSubmission is the synthesized descriptor_map document (spec
// §3 "EvaluationResults", §4.9).
type PresentationSubmission struct {
	ID            string                  `json:"id"`
	DefinitionID  string                  `json:"definition_id"`
	DescriptorMap []*SubmissionDescriptor `json:"descriptor_map"`
}

// SynthesisError reports which named submission_requirement could not be
// satisfied (spec §7 "SubmissionSynthesisFailure").
type SynthesisError struct {
	Requirement string
	Reason      string
}

func (e *SynthesisError) Error() string {
	return "submission requirement " + e.Requirement + ": " + e.Reason
}

// candidatesByDescriptor indexes CandidatePairs by descriptor index,
// credential indices ascending.
func candidatesByDescriptor(pairs [][2]int) map[int][]int {
	out := map[int][]int{}

	for _, p := range pairs {
		out[p[0]] = append(out[p[0]], p[1])
	}

	for _, v := range out {
		sort.Ints(v)
	}

	return out
}

func groupIndices(pd *definition.PresentationDefinition, group string) []int {
	var out []int

	for i, d := range pd.InputDescriptors {
		if d.InGroup(group) {
			out = append(out, i)
		}
	}

	return out
}

// resolveRequired computes the set of descriptor indices that must be
// satisfied in the final submission (spec §4.9 step 1): every descriptor,
// if no submission_requirements are declared, otherwise the union of what
// each requirement resolves to.
func resolveRequired(pd *definition.PresentationDefinition, byDescriptor map[int][]int) ([]int, error) {
	if len(pd.SubmissionRequirements) == 0 {
		out := make([]int, len(pd.InputDescriptors))
		for i := range pd.InputDescriptors {
			out[i] = i
		}

		return out, nil
	}

	seen := map[int]bool{}

	for _, sr := range pd.SubmissionRequirements {
		idxs, err := resolveRequirement(sr, pd, byDescriptor)
		if err != nil {
			return nil, err
		}

		for _, i := range idxs {
			seen[i] = true
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}

	sort.Ints(out)

	return out, nil
}

func resolveRequirement(sr *definition.SubmissionRequirement, pd *definition.PresentationDefinition, byDescriptor map[int][]int) ([]int, error) {
	if sr.From != "" {
		return resolveFromGroup(sr, groupIndices(pd, sr.From), byDescriptor)
	}

	return resolveFromNested(sr, pd, byDescriptor)
}

func resolveFromGroup(sr *definition.SubmissionRequirement, group []int, byDescriptor map[int][]int) ([]int, error) {
	var satisfiable []int

	for _, i := range group {
		if len(byDescriptor[i]) > 0 {
			satisfiable = append(satisfiable, i)
		}
	}

	if sr.Rule == definition.RuleAll {
		if len(satisfiable) != len(group) {
			return nil, &SynthesisError{Requirement: sr.Name, Reason: "not every descriptor in the group is satisfiable"}
		}

		return satisfiable, nil
	}

	minN, maxN := sr.Min, sr.Max
	if sr.Count > 0 {
		minN, maxN = sr.Count, sr.Count
	}

	if maxN == 0 || maxN > len(satisfiable) {
		maxN = len(satisfiable)
	}

	if len(satisfiable) < minN {
		return nil, &SynthesisError{Requirement: sr.Name, Reason: "fewer than the minimum number of descriptors are satisfiable"}
	}

	return satisfiable[:maxN], nil
}

func resolveFromNested(sr *definition.SubmissionRequirement, pd *definition.PresentationDefinition, byDescriptor map[int][]int) ([]int, error) {
	type outcome struct {
		idxs []int
		err  error
	}

	outcomes := make([]outcome, len(sr.FromNested))

	for i, nested := range sr.FromNested {
		idxs, err := resolveRequirement(nested, pd, byDescriptor)
		outcomes[i] = outcome{idxs: idxs, err: err}
	}

	if sr.Rule == definition.RuleAll {
		var out []int

		for _, o := range outcomes {
			if o.err != nil {
				return nil, &SynthesisError{Requirement: sr.Name, Reason: "a nested requirement was not satisfiable"}
			}

			out = append(out, o.idxs...)
		}

		return out, nil
	}

	minN := sr.Min
	if sr.Count > 0 {
		minN = sr.Count
	}

	var satisfied []int

	succeeded := 0

	for _, o := range outcomes {
		if o.err == nil {
			succeeded++
			satisfied = append(satisfied, o.idxs...)
		}
	}

	if succeeded < minN {
		return nil, &SynthesisError{Requirement: sr.Name, Reason: "fewer than the minimum number of nested requirements are satisfiable"}
	}

	return satisfied, nil
}

// assign runs the deterministic backtracking search of spec §4.9 step 2:
// an assignment descriptor -> credential minimizing the number of
// distinct credentials used, ties broken by the lowest credential index.
func assign(required []int, byDescriptor map[int][]int) (map[int]int, bool) {
	var best map[int]int

	var bestDistinct = -1

	current := map[int]int{}

	var usedCount = map[int]int{}

	var recurse func(pos int)

	recurse = func(pos int) {
		if pos == len(required) {
			distinct := len(usedCount)
			if bestDistinct == -1 || distinct < bestDistinct || (distinct == bestDistinct && lexLess(current, best, required)) {
				bestDistinct = distinct
				best = cloneAssignment(current)
			}

			return
		}

		desc := required[pos]

		candidates := append([]int(nil), byDescriptor[desc]...)
		sort.Slice(candidates, func(a, b int) bool {
			ua, ub := usedCount[candidates[a]] > 0, usedCount[candidates[b]] > 0
			if ua != ub {
				return ua
			}

			return candidates[a] < candidates[b]
		})

		for _, cred := range candidates {
			current[desc] = cred
			usedCount[cred]++

			recurse(pos + 1)

			usedCount[cred]--
			if usedCount[cred] == 0 {
				delete(usedCount, cred)
			}

			delete(current, desc)
		}
	}

	recurse(0)

	return best, best != nil
}

func cloneAssignment(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// lexLess breaks ties between two equally-sized assignments by preferring
// the lower credential index at the first descriptor (in required order)
// where they differ.
func lexLess(a, b map[int]int, order []int) bool {
	if b == nil {
		return true
	}

	for _, d := range order {
		if a[d] != b[d] {
			return a[d] < b[d]
		}
	}

	return false
}

// Synthesize implements Selection & Submission Synthesis (spec §4.9):
// given the evaluated client's candidate pairs, it resolves which
// descriptors must be satisfied, searches for the minimal-credential
// assignment, and emits a PresentationSubmission plus the ordered list of
// credentials it references.
func Synthesize(c *Client) (*PresentationSubmission, []int, [][2]int, error) {
	byDescriptor := candidatesByDescriptor(c.CandidatePairs())

	// presentationSubmission/generatePresentationSubmission (spec §6): a
	// caller-supplied submission is validated against this evaluation's
	// candidate pairs instead of being replaced, unless regeneration was
	// explicitly forced.
	if c.Options.PresentationSubmission != nil && !c.Options.GeneratePresentationSubmission {
		return validateSuppliedSubmission(c, byDescriptor)
	}

	required, err := resolveRequired(c.Definition, byDescriptor)
	if err != nil {
		return nil, nil, nil, err
	}

	assignment, ok := assign(required, byDescriptor)
	if !ok {
		return nil, nil, nil, &SynthesisError{Requirement: "", Reason: "no assignment satisfies the required descriptors"}
	}

	if err := checkSameSubjectAssignment(c, required, assignment); err != nil {
		return nil, nil, nil, err
	}

	credIndexOrder := orderedCredentials(required, assignment)
	position := map[int]int{}

	for k, ci := range credIndexOrder {
		position[ci] = k
	}

	sub := &PresentationSubmission{
		ID:           c.Options.NewUUID(),
		DefinitionID: c.Definition.ID,
	}

	var pairs [][2]int

	for _, i := range required {
		d := c.Definition.InputDescriptors[i]
		cred := assignment[i]

		sub.DescriptorMap = append(sub.DescriptorMap, &SubmissionDescriptor{
			ID:     d.ID,
			Format: string(c.Credentials[cred].Envelope),
			Path:   jsonpathIndex(position[cred]),
		})

		pairs = append(pairs, [2]int{i, cred})
	}

	return sub, credIndexOrder, pairs, nil
}

// checkSameSubjectAssignment implements the cross-descriptor half of
// SameSubject (spec §4.6): within each same_subject group, every descriptor
// that owns one of the group's field IDs and was assigned a credential must
// resolve to the same subject ID. This can only be evaluated once concrete
// credentials are assigned to concrete descriptors, so it runs here against
// the winning assignment rather than in subjectHandler, which only ever sees
// one (descriptor, credential) candidate at a time.
func checkSameSubjectAssignment(c *Client, required []int, assignment map[int]int) error {
	fieldOwner := map[string]int{}

	for i, d := range c.Definition.InputDescriptors {
		if d.Constraints == nil {
			continue
		}

		for _, f := range d.Constraints.Fields {
			if f.ID != "" {
				fieldOwner[f.ID] = i
			}
		}
	}

	assigned := map[int]bool{}
	for _, i := range required {
		assigned[i] = true
	}

	seen := map[*definition.Holder]bool{}

	for _, i := range required {
		d := c.Definition.InputDescriptors[i]
		if d.Constraints == nil {
			continue
		}

		for _, h := range d.Constraints.SameSubject {
			if seen[h] {
				continue
			}

			seen[h] = true

			if err := checkSameSubjectGroup(c, h, assignment, assigned, fieldOwner); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkSameSubjectGroup resolves one same_subject group's field IDs to
// (descriptor, credential) members via fieldOwner, and compares their
// subject IDs.
func checkSameSubjectGroup(c *Client, h *definition.Holder, assignment map[int]int, assigned map[int]bool, fieldOwner map[string]int) error {
	subjects := map[string]bool{}

	var members [][2]int

	for _, fid := range h.FieldIDs {
		owner, ok := fieldOwner[fid]
		if !ok || !assigned[owner] {
			continue
		}

		cred := assignment[owner]

		if subj := c.Credentials[cred].SubjectID(); subj != "" {
			subjects[subj] = true
		}

		members = append(members, [2]int{owner, cred})
	}

	if len(subjects) <= 1 {
		for _, m := range members {
			c.Log.Append(HandlerCheckResult{
				DescriptorIndex: m[0],
				CredentialIndex: m[1],
				EvaluatorName:   evaluatorSameSubject,
				Status:          StatusInfo,
				Message:         "same_subject group agrees on a single subject",
			})
		}

		return nil
	}

	// spec §4.6 states SameSubject divergence is an error outright;
	// an explicit "preferred" directive is the one case that softens
	// that to a warning, matching SubjectIsIssuer/IsHolder's directive
	// handling for the same Holder type.
	status := StatusError
	if h.Directive.IsPreferred() {
		status = StatusWarn
	}

	for _, m := range members {
		c.Log.Append(HandlerCheckResult{
			DescriptorIndex: m[0],
			CredentialIndex: m[1],
			EvaluatorName:   evaluatorSameSubject,
			Status:          status,
			Message:         "same_subject group resolves to divergent subject IDs",
		})
	}

	if status == StatusError {
		return &SynthesisError{Requirement: "same_subject", Reason: "credentials assigned across a same_subject group do not share a subject"}
	}

	return nil
}

// validateSuppliedSubmission implements the presentationSubmission opt
// (spec §6): the caller's submission is returned unmodified once every
// descriptor_map entry is confirmed to name a real input descriptor and
// point at a credential this evaluation actually accepted as a candidate
// for it. The credential list is left in its original order — the
// supplied submission's paths already index into it.
func validateSuppliedSubmission(c *Client, byDescriptor map[int][]int) (*PresentationSubmission, []int, [][2]int, error) {
	ps := c.Options.PresentationSubmission

	if ps.DefinitionID != c.Definition.ID {
		return nil, nil, nil, &SynthesisError{Requirement: "presentationSubmission", Reason: "definition_id does not match the presentation definition"}
	}

	var pairs [][2]int

	for _, d := range ps.DescriptorMap {
		i := descriptorIndex(c.Definition, d.ID)
		if i == -1 {
			return nil, nil, nil, &SynthesisError{Requirement: "presentationSubmission", Reason: "descriptor_map references unknown input descriptor " + d.ID}
		}

		k, ok := parseSubmissionPath(d.Path)
		if !ok || k < 0 || k >= len(c.Credentials) {
			return nil, nil, nil, &SynthesisError{Requirement: "presentationSubmission", Reason: "descriptor_map entry for " + d.ID + " has an invalid path"}
		}

		if !containsInt(byDescriptor[i], k) {
			return nil, nil, nil, &SynthesisError{Requirement: "presentationSubmission", Reason: "descriptor_map entry for " + d.ID + " references a credential that is not a valid candidate for it"}
		}

		pairs = append(pairs, [2]int{i, k})
	}

	credIndexOrder := make([]int, len(c.Credentials))
	for k := range credIndexOrder {
		credIndexOrder[k] = k
	}

	return ps, credIndexOrder, pairs, nil
}

func descriptorIndex(pd *definition.PresentationDefinition, id string) int {
	for i, d := range pd.InputDescriptors {
		if d.ID == id {
			return i
		}
	}

	return -1
}

// parseSubmissionPath parses the "$.verifiableCredential[k]" paths this
// package emits (jsonpathIndex) back into k.
func parseSubmissionPath(path string) (int, bool) {
	const prefix, suffix = "$.verifiableCredential[", "]"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix))
	if err != nil {
		return 0, false
	}

	return n, true
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}

	return false
}

// orderedCredentials returns the distinct credential indices used by
// assignment, ordered by first appearance over required (declaration
// order), so descriptor_map paths are stable and deterministic.
func orderedCredentials(required []int, assignment map[int]int) []int {
	seen := map[int]bool{}

	var out []int

	for _, i := range required {
		ci := assignment[i]
		if !seen[ci] {
			seen[ci] = true
			out = append(out, ci)
		}
	}

	return out
}

func jsonpathIndex(k int) string {
	return fmt.Sprintf("$.verifiableCredential[%d]", k)
}
