// Package core provides the business logic for roster cleaning runs.
//
// # Error Codes Reference
//
// User-facing error messages carry codes so a user can quote one back
// to support. Patterns are matched case-insensitively with
// strings.Contains; the first match wins, so specific patterns come
// before general ones.
//
//	COL001 - Employee name column not found
//	COL002 - Phone column not found
//	FILE001 - File too large
//	FILE002 - Not a valid CSV file
//	FILE003 - Not a valid spreadsheet
//	FILE004 - No file selected
//	FILE005 - File has no data rows
//	FILE006 - Unsupported file type
//	PARAM001 - max_miles is not a number
//	RATE001 - Too many requests
//	REQ001  - Request cancelled or timed out
//	ERR000  - Fallback for anything unmatched
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Column detection failures from the pipeline.
	{
		pattern: "employee name column not found",
		msg: UserMessage{
			Message: "Could not find an Employee Name column",
			Action:  "Check that the export contains a column named like 'Employee Name'",
			Code:    "COL001",
		},
	},
	{
		pattern: "phone column not found",
		msg: UserMessage{
			Message: "Could not find a phone column",
			Action:  "Check that the export contains a column named like 'Employee Phone', 'Mobile', or 'Cell'",
			Code:    "COL002",
		},
	},

	// File decode failures.
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Export a smaller date range or remove unused columns",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Re-export the roster as CSV and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid spreadsheet",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Re-export the roster as .xlsx and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a roster spreadsheet to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no data remains",
		msg: UserMessage{
			Message: "The file has no data rows after the banner rows",
			Action:  "Check that the export is complete",
			Code:    "FILE005",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a roster export with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Upload a .csv, .xlsx, or .xls file",
			Code:    "FILE006",
		},
	},

	// Parameter parsing failures from the form.
	{
		pattern: "max miles must be a number",
		msg: UserMessage{
			Message: "Max miles must be a number",
			Action:  "Enter a numeric distance like 50 or 12.5",
			Code:    "PARAM001",
		},
	},

	// Throttling and cancellation.
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original
// technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches the known patterns (case-insensitive) and returns the
// first match, or the generic ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern and is
// safe to show users verbatim (anything but the ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
