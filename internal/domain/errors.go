package domain

import "errors"

var (
	// ErrNetwork covers timeouts, connection failures and non-2xx upstream
	// responses.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedResponse covers missing or unparseable keys in an
	// otherwise successful upstream response.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrStorage covers an unreadable, unwritable or corrupt history log.
	ErrStorage = errors.New("storage failure")
	// ErrNoData is reported while no fetch has ever succeeded.
	ErrNoData = errors.New("no price data yet")
)
