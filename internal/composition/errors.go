package composition

// ErrorCode identifies a user-facing composition error category.
type ErrorCode string

const (
	CodeSatisfiabilityError             ErrorCode = "SATISFIABILITY_ERROR"
	CodeShareableMismatchedRuntimeTypes ErrorCode = "SHAREABLE_HAS_MISMATCHED_RUNTIME_TYPES"
)

// Error is a user-facing composition error. It is accumulated into a
// caller-owned list, never returned as a function failure: one run surfaces
// many independent problems.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

// HintCode identifies a composition hint category.
type HintCode string

const (
	CodeInconsistentRuntimeTypesForShareable HintCode = "INCONSISTENT_RUNTIME_TYPES_FOR_SHAREABLE_RETURN"
)

// Hint is a non-fatal composition warning.
type Hint struct {
	Code    HintCode
	Message string
}
