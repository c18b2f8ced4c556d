package engine

import (
	"encoding/json"
	"strconv"
)

// blockedByOwnerCode is the remote error code meaning the requesting account
// is blocked by the content owner. Compared by string equality.
const blockedByOwnerCode = "136"

// defaultErrorMessage is the fixed client-side message for responses that
// decode but do not match the expected shape.
const defaultErrorMessage = "could not understand the upstream response"

// ErrorReport is everything known about one failed exchange.
type ErrorReport struct {
	// TransportError is the transport-level error string.
	TransportError string

	// Code is the remote-provided numeric error code, stringified. Empty
	// when the error body was missing or unparseable.
	Code string

	// Message is the human-readable failure text: the remote message when
	// one was found, otherwise the transport error string.
	Message string
}

// parseErrorReport builds an ErrorReport from a transport error string and
// the raw error body. The remote reports errors as an object carrying an
// "errors" array; when several entries are present the last one wins.
func parseErrorReport(transportError string, body []byte) ErrorReport {
	report := ErrorReport{
		TransportError: transportError,
		Message:        transportError,
	}

	var payload struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return report
	}
	for _, remote := range payload.Errors {
		report.Code = strconv.Itoa(remote.Code)
		report.Message = remote.Message
	}
	return report
}

// Blocked reports whether the remote rejected the call because the content
// owner blocks the requesting account.
func (r ErrorReport) Blocked() bool {
	return r.Code == blockedByOwnerCode
}
