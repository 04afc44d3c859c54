package errors

var (
	ErrInvalidWindow = &DomainError{
		Code:    "INVALID_WINDOW",
		Message: "invalid time window",
	}
	ErrDataUnavailable = &DomainError{
		Code:    "DATA_UNAVAILABLE",
		Message: "analytics data unavailable",
	}
	ErrInvalidQuery = &DomainError{
		Code:    "INVALID_QUERY",
		Message: "invalid query",
	}
)
