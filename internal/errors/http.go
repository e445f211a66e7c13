package errors

// HTTPBody is the JSON error envelope returned by the HTTP transport
type HTTPBody struct {
	Error     string         `json:"error"`
	Code      Code           `json:"code"`
	Retryable bool           `json:"retryable,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	// SessionID lets a client resume a session whose request failed midway
	SessionID string         `json:"sessionId,omitempty"`
}

// ToHTTP maps an error onto a status code and response body.
// Internal causes never leak; only the coded message does.
func ToHTTP(err error) (int, HTTPBody) {
	code := GetCode(err)
	body := HTTPBody{
		Error:     GetMessage(err),
		Code:      code,
		Retryable: code.Retryable(),
	}

	var customErr *Error
	if !As(err, &customErr) {
		body.Error = "request failed"
	}

	meta := GetMeta(err)
	if fields, ok := meta["validation_errors"]; ok {
		body.Fields = map[string]any{"validation_errors": fields}
	}
	if id, ok := meta["session_id"].(string); ok {
		body.SessionID = id
	}

	return code.HTTPStatus(), body
}
