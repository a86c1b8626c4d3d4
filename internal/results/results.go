// Package results carries a stage's outcome as a value: exactly one of
// Success or Failure is set.
package results

type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}

// ValueOr returns the success value, or fallback when the operation failed.
func (r OperationResult[S, F]) ValueOr(fallback S) S {
	if r.Success == nil {
		return fallback
	}
	return *r.Success
}

// From wraps a (value, error) pair.
func From[S any](v S, err error) OperationResult[S, error] {
	if err != nil {
		return FailureResult[S, error](err)
	}
	return SuccessResult[S, error](v)
}
