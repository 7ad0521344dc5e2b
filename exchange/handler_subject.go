package exchange

import "github.com/identity-foundation/pex-go/definition"

const (
	evaluatorSubjectIsIssuer = "SubjectIsIssuer"
	evaluatorIsHolder        = "IsHolder"
	evaluatorSameSubject     = "SameSubject"
)

// subjectHandler runs the three subject/holder binding checks of spec
// §4.6: SubjectIsIssuer, IsHolder, and SameSubject.
func subjectHandler(c *Client) {
	for i, d := range c.Definition.InputDescriptors {
		if d.Constraints == nil {
			continue
		}

		for j, vc := range c.Credentials {
			if d.Constraints.SubjectIsIssuer.IsSet() {
				checkSubjectIsIssuer(c, i, j, d.Constraints.SubjectIsIssuer, vc.SubjectID(), vc.Issuer())
			}

			for _, h := range d.Constraints.IsHolder {
				checkIsHolder(c, i, j, h, vc.SubjectID())
			}

			for range d.Constraints.SameSubject {
				// A same_subject group only constrains credentials chosen
				// for distinct descriptors, so it can't be falsified by a
				// single (i, j) candidate in isolation; the real check
				// runs in checkSameSubjectAssignment once synthesis has
				// picked concrete credentials per descriptor.
				c.Log.Append(HandlerCheckResult{
					DescriptorIndex: i,
					CredentialIndex: j,
					EvaluatorName:   evaluatorSameSubject,
					Status:          StatusInfo,
					Message:         "same_subject is evaluated across the synthesized submission",
				})
			}
		}
	}
}

func checkSubjectIsIssuer(c *Client, i, j int, pref definition.Preference, subject, issuer string) {
	match := subject != "" && subject == issuer

	status := StatusInfo
	msg := "credential subject is the issuer"

	switch {
	case match:
	case pref.IsRequired():
		status = StatusError
		msg = "credential subject is not the issuer"
	case pref.IsPreferred():
		status = StatusWarn
		msg = "credential subject is preferred to be the issuer"
	}

	c.Log.Append(HandlerCheckResult{
		DescriptorIndex: i,
		CredentialIndex: j,
		EvaluatorName:   evaluatorSubjectIsIssuer,
		Status:          status,
		Message:         msg,
	})
}

func checkIsHolder(c *Client, i, j int, h *definition.Holder, subject string) {
	owned := subject != "" && contains(c.Options.HolderDIDs, subject)

	status := StatusInfo
	msg := "credential subject is held by the wallet"

	switch {
	case owned:
	case h.Directive.IsRequired():
		status = StatusError
		msg = "credential subject is not among the declared holder DIDs"
	case h.Directive.IsPreferred():
		status = StatusWarn
		msg = "credential subject is preferred to be held by the wallet"
	}

	c.Log.Append(HandlerCheckResult{
		DescriptorIndex: i,
		CredentialIndex: j,
		EvaluatorName:   evaluatorIsHolder,
		Status:          status,
		Message:         msg,
	})
}
