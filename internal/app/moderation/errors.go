package moderation

// Error is an application-layer error that can be mapped to an HTTP response.
// Message text for conflict errors is part of the contract: the dashboard
// displays it verbatim.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}
