package serverutils

type ErrorBody struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func ErrorResponse(code, message string, details interface{}) ErrorBody {
	return ErrorBody{Error: message, Code: code, Details: details}
}
