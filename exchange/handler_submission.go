package exchange

const evaluatorMarkForSubmission = "MarkForSubmission"

// submissionHandler implements MarkForSubmission (spec §4.8), the final
// stage of the chain: it reduces every prior entry for a pair into one
// verdict and records it, without altering the aggregated status (the
// max-severity invariant already holds over the entries it reads).
func submissionHandler(c *Client) {
	for i := range c.Definition.InputDescriptors {
		for j := range c.Credentials {
			status := c.Log.FinalStatus(i, j)

			msg := "candidate usable for submission"
			if status == StatusError {
				msg = "candidate not usable for submission"
			}

			c.Log.Append(HandlerCheckResult{
				DescriptorIndex: i,
				CredentialIndex: j,
				EvaluatorName:   evaluatorMarkForSubmission,
				Status:          status,
				Message:         msg,
			})
		}
	}
}

// CandidatePairs returns every (descriptor, credential) pair whose final
// status is not error.
func (c *Client) CandidatePairs() [][2]int {
	var out [][2]int

	for i := range c.Definition.InputDescriptors {
		for j := range c.Credentials {
			if c.Log.FinalStatus(i, j) != StatusError {
				out = append(out, [2]int{i, j})
			}
		}
	}

	return out
}
