package services

// verifyWithRetry re-checks a written state and retries the write exactly
// once when the check fails. check reads the current state and reports
// whether it matches the expected one; retry re-issues the write.
//
// Returns whether the state matched after at most one retry. Used by the
// linking operations, where a post-write read that disagrees with the
// expected state is an integrity alarm rather than a hard failure.
func verifyWithRetry(check func() (bool, error), retry func() error) (bool, error) {
	ok, err := check()
	if err != nil || ok {
		return ok, err
	}

	if err := retry(); err != nil {
		return false, err
	}

	return check()
}
