package httperrors

import (
	"fmt"
	"net/http"
)

const (
	TypeGeneric        = "generic"
	TypeMalformedBody  = "MALFORMED_BODY"
	TypeInvalidHex     = "INVALID_HEX"
	TypeInvalidPath    = "INVALID_PATH"
	TypeInvalidAmount  = "INVALID_AMOUNT"
	TypeInvalidAddress = "INVALID_ADDRESS"
)

// HTTPError is rendered as the JSON body of a failed request.
type HTTPError struct {
	Code   int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTPError %d (%s): %s - %s", e.Code, e.Type, e.Title, e.Detail)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// WithDetail returns a copy carrying the cause.
func (e *HTTPError) WithDetail(err error) *HTTPError {
	c := *e
	if err != nil {
		c.Detail = err.Error()
	}
	return &c
}

var (
	ErrBadRequestMalformedBody  = NewHTTPError(http.StatusBadRequest, TypeMalformedBody, "Request body is malformed.")
	ErrBadRequestInvalidHex     = NewHTTPError(http.StatusBadRequest, TypeInvalidHex, "Field is not valid hex.")
	ErrBadRequestInvalidPath    = NewHTTPError(http.StatusBadRequest, TypeInvalidPath, "Derivation path is invalid.")
	ErrBadRequestInvalidAmount  = NewHTTPError(http.StatusBadRequest, TypeInvalidAmount, "Amount does not fit 16 bytes.")
	ErrBadRequestInvalidAddress = NewHTTPError(http.StatusBadRequest, TypeInvalidAddress, "Address does not fit 64 bytes.")
)
