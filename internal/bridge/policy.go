package bridge

// FailurePolicy decides what happens when the fixed configuration cannot be read.
type FailurePolicy int

const (
	// FailurePolicyReturn reports the failure to the front-end as an error result.
	FailurePolicyReturn FailurePolicy = iota
	// FailurePolicyExit logs the failure and terminates the process.
	FailurePolicyExit
)

// FailFastExitCode is the process status used by FailurePolicyExit.
const FailFastExitCode = 1

// PolicyFor maps the fail_fast setting onto a policy.
func PolicyFor(failFast bool) FailurePolicy {
	if failFast {
		return FailurePolicyExit
	}
	return FailurePolicyReturn
}

func (p FailurePolicy) String() string {
	switch p {
	case FailurePolicyExit:
		return "exit"
	default:
		return "return"
	}
}
