package exchange

import (
	"github.com/identity-foundation/pex-go/internal/did"
)

const (
	evaluatorDIDRestriction    = "DIDRestriction"
	evaluatorFormatRestriction = "FormatRestriction"
)

// restrictionHandler enforces the caller-supplied allow-lists from spec
// §4.7: restrictToDIDMethods and restrictToFormats. An empty allow-list
// imposes no restriction.
func restrictionHandler(c *Client) {
	for i := range c.Definition.InputDescriptors {
		for j, vc := range c.Credentials {
			if len(c.Options.RestrictToDIDMethods) > 0 {
				method := did.Method(vc.Issuer())

				status, msg := StatusInfo, "issuer DID method is accepted"
				if method == "" || !contains(c.Options.RestrictToDIDMethods, method) {
					status, msg = StatusError, "issuer DID method is not among the accepted methods"
				}

				c.Log.Append(HandlerCheckResult{
					DescriptorIndex: i,
					CredentialIndex: j,
					EvaluatorName:   evaluatorDIDRestriction,
					Status:          status,
					Message:         msg,
				})
			}

			if len(c.Options.RestrictToFormats) > 0 {
				status, msg := StatusInfo, "credential envelope is accepted"
				if !contains(c.Options.RestrictToFormats, string(vc.Envelope)) {
					status, msg = StatusError, "credential envelope is not among the accepted formats"
				}

				c.Log.Append(HandlerCheckResult{
					DescriptorIndex: i,
					CredentialIndex: j,
					EvaluatorName:   evaluatorFormatRestriction,
					Status:          status,
					Message:         msg,
				})
			}
		}
	}
}
