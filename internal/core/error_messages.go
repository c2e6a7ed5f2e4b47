package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference. When users encounter errors, they can quote
// the code to support staff for faster diagnosis.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Split the file into smaller files
//	          Matches: ErrFileTooLarge, "request body too large"
//
//	FILE002 - Invalid CSV: File could not be read as delimited text
//	          Action: Check the quoting and delimiter of the file
//	          Matches: ErrInvalidCSV
//
//	FILE003 - Encoding error: File encoding is not supported
//	          Action: Save the file as UTF-8, or pick windows-1252 / iso-8859-1
//	          Matches: ErrUnsupportedEncoding
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a CSV or XLSX file
//	          Matches: ErrNoFile
//
//	FILE005 - Empty file: The file has no rows
//	          Action: Please upload a file with data rows
//	          Matches: ErrEmptyFile
//
//	FILE006 - Invalid workbook: File is not a readable XLSX workbook
//	          Action: Re-save the workbook as .xlsx and try again
//	          Matches: ErrInvalidWorkbook
//
//	FILE007 - Sheet not found: The requested sheet does not exist
//	          Action: Check the sheet name or leave it blank for the first sheet
//	          Matches: ErrSheetNotFound
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many conversions in progress
//	         Matches: ErrTooManyConversions
//	UPL004 - Request cancelled: "context canceled"
//	UPL005 - Request timeout: "context deadline exceeded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid options: A form option is out of range
//	         Matches: ErrInvalidOptions
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original
// technical error when users report ERR000.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages maps sentinel errors to user messages. Checked with
// errors.Is before any substring pattern.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{ErrInvalidCSV, UserMessage{
		Message: "File could not be read as delimited text",
		Action:  "Check the quoting and delimiter of the file",
		Code:    "FILE002",
	}},
	{ErrUnsupportedEncoding, UserMessage{
		Message: "File encoding is not supported",
		Action:  "Save the file as UTF-8, or choose windows-1252 or iso-8859-1",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV or XLSX file",
		Code:    "FILE004",
	}},
	{ErrEmptyFile, UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a file with data rows",
		Code:    "FILE005",
	}},
	{ErrInvalidWorkbook, UserMessage{
		Message: "File is not a readable XLSX workbook",
		Action:  "Re-save the workbook as .xlsx and try again",
		Code:    "FILE006",
	}},
	{ErrSheetNotFound, UserMessage{
		Message: "The requested sheet does not exist",
		Action:  "Check the sheet name or leave it blank to use the first sheet",
		Code:    "FILE007",
	}},
	{ErrTooManyConversions, UserMessage{
		Message: "System is busy processing other files",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},
	{ErrInvalidOptions, UserMessage{
		Message: "One of the options is invalid",
		Action:  "Check the sheet, delimiter and encoding fields",
		Code:    "REQ001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches errors that arrive as plain text from outside this
// package (net/http, middleware). Matched case-insensitively; first wins.
var errorPatterns = []errorPattern{
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Sentinel errors anywhere in the wrap chain win over text patterns.
//
// Example:
//
//	err := fmt.Errorf("open upload: %w", ErrInvalidWorkbook)
//	msg := MapError(err)
//	// msg.Code == "FILE006"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
