package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	// CodeNetwork covers DNS, connect, and timeout failures before any
	// merchant response was received.
	CodeNetwork Code = "NETWORK_ERROR"
	// CodeProtocol means the merchant was reachable but answered non-2xx.
	CodeProtocol Code = "PROTOCOL_HTTP_ERROR"
	// CodeDecode means the merchant response was not the expected shape.
	CodeDecode Code = "DECODE_ERROR"
	// CodeClientMisuse flags operations invoked on an uninitialized or
	// closed transport.
	CodeClientMisuse Code = "CLIENT_MISUSE"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeNetwork: {
		Retryable:      true,
		PublicMessage:  "could not reach merchant",
		DetailsAllowed: true,
	},
	CodeProtocol: {
		Retryable:      false,
		PublicMessage:  "merchant rejected the request",
		DetailsAllowed: true,
	},
	CodeDecode: {
		Retryable:      false,
		PublicMessage:  "merchant response was malformed",
		DetailsAllowed: true,
	},
	CodeClientMisuse: {
		Retryable:      false,
		PublicMessage:  "client not initialized",
		DetailsAllowed: false,
	},
	CodeValidation: {
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeInternal: {
		Retryable:      true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error

	httpStatus   int
	responseBody string
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Protocol builds a CodeProtocol error preserving the merchant's status
// and raw body for diagnostics.
func Protocol(status int, body string, message string) *Error {
	return &Error{
		code:         CodeProtocol,
		message:      message,
		httpStatus:   status,
		responseBody: body,
	}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// HTTPStatus reports the merchant status code for protocol errors, 0 otherwise.
func (e *Error) HTTPStatus() int {
	if e == nil {
		return 0
	}
	return e.httpStatus
}

// ResponseBody returns the merchant's raw error body for protocol errors.
func (e *Error) ResponseBody() string {
	if e == nil {
		return ""
	}
	return e.responseBody
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.code == CodeProtocol && e.httpStatus != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.code, e.message, e.httpStatus)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
