package rubrik

import "fmt"

// AuthError reports a failed login: either the request itself failed or the
// appliance rejected the credentials. Message carries the server-reported
// reason when one was present.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rubrik login failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("rubrik login rejected: %s", e.Message)
	}
	return "rubrik login rejected"
}

func (e *AuthError) Unwrap() error { return e.Err }

// QueryError reports a failed metric query. It names the endpoint and, for
// non-success HTTP statuses, keeps the raw response body for diagnostics.
type QueryError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error getting %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("error getting %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func (e *QueryError) Unwrap() error { return e.Err }
