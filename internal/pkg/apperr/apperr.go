// Package apperr defines the typed errors that flow from the summarize
// pipeline to the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status-code mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindExtraction
	KindNotFound
	KindTooLarge
)

// Code is the machine-readable error identifier sent to clients.
type Code string

const (
	CodeMissingFields       Code = "MissingFields"
	CodeTextTooShort        Code = "TextTooShort"
	CodeUnsupportedType     Code = "UnsupportedType"
	CodeInsufficientContent Code = "InsufficientContent"
	CodeUnsupportedPlatform Code = "UnsupportedPlatform"
	CodeNoCaptions          Code = "NoCaptionsAvailable"
	CodeFetchError          Code = "FetchError"
	CodeUnreadableDocument  Code = "UnreadableDocument"
	CodeUnsupportedFileType Code = "UnsupportedFileType"
	CodeMissingFile         Code = "MissingFile"
	CodeFileTooLarge        Code = "FileTooLarge"
	CodeInvalidField        Code = "InvalidField"
	CodeNotFound            Code = "NotFound"
	CodeInternal            Code = "InternalError"
)

// Messages returned to clients.
const (
	MsgMissingFields       = "Missing required fields"
	MsgTextTooShort        = "Text is too short. Please provide at least 50 characters."
	MsgUnsupportedType     = "Unsupported content type"
	MsgInsufficientContent = "Could not extract sufficient content from source"
	MsgUnsupportedPlatform = "Only YouTube videos are supported currently"
	MsgNoCaptions          = "Could not extract transcript. Video may not have captions or may be private."
	MsgFetchError          = "Could not extract content from URL. Please check if the URL is accessible."
	MsgUnreadableDocument  = "Could not extract content from file"
	MsgUnsupportedFileType = "Unsupported file type"
	MsgNoFileUploaded      = "No file uploaded"
	MsgNoFileSelected      = "No file selected"
	MsgFileTooLarge        = "File is too large"
	MsgInternal            = "Internal server error"
	MsgUploadFailed        = "File upload failed"
	MsgLikeFailed          = "Failed to update like status"
	MsgListFailed          = "Failed to retrieve summaries"
	MsgSummaryNotFound     = "Summary not found"
)

// Error carries a kind, a client-facing code and message, and the root cause.
// Only Code and Message ever leave the process.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindExtraction:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code Code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code Code, message string) *Error {
	return New(KindValidation, code, message)
}

func Extraction(code Code, message string, err error) *Error {
	return Wrap(KindExtraction, code, message, err)
}

func NotFound(message string) *Error {
	return New(KindNotFound, CodeNotFound, message)
}

// InternalMsg wraps an unexpected failure with an operation-specific message.
func InternalMsg(message string, err error) *Error {
	return Wrap(KindInternal, CodeInternal, message, err)
}

// Internal wraps an unexpected failure. The client only sees MsgInternal.
func Internal(err error) *Error {
	return Wrap(KindInternal, CodeInternal, MsgInternal, err)
}

// As extracts an *Error from err. Untyped errors become Internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// HasCode reports whether err is an *Error carrying code.
func HasCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
