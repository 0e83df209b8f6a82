// Package core provides the row ledger and quota-limited export engine.
//
// # Error Codes Reference
//
// Failed actions are reported to the operator with a short message, a
// suggested action and a code that can be quoted to support.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: Category, Type, Subtype or Bearing Number is empty
//	         Action: Fill all fields marked * before adding or downloading
//	         Patterns: "missing required field"
//
//	VAL002 - Unknown selection: The category, type or subtype is not in the catalogue
//	         Action: Pick the values from the lists
//	         Patterns: "unknown selection"
//
// # Quota Errors (QUO001-QUO099)
//
//	QUO001 - Quota exceeded: The download needs more words than remain
//	         Action: Remove rows or reset the quota
//	         Patterns: "word quota exceeded"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Nothing to export: No rows were added and the form is incomplete
//	         Action: Add a row or fill the form
//	         Patterns: "nothing to export"
//
//	EXP002 - Unsupported format: Only CSV and XLSX downloads exist
//	         Action: Use the Download CSV or Download XLSX buttons
//	         Patterns: "unsupported export format"
//
//	EXP003 - Server busy: Too many downloads are being generated
//	         Action: Please try the download again
//	         Patterns: "too many exports"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: The session was not found
//	         Action: Reload the page to start a new session
//	         Patterns: "session not found"
//
//	SES002 - Server full: No more sessions can be opened
//	         Action: Please wait a moment and try again
//	         Patterns: "too many sessions"
//
//	SES003 - Request cancelled / timed out
//	         Action: Please try again
//	         Patterns: "context canceled", "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.
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

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Validation
	{
		pattern: "missing required field",
		msg: UserMessage{
			Message: "A required field is empty",
			Action:  "Fill Category, Type, Subtype and Bearing Number / Code",
			Code:    "VAL001",
		},
	},
	{
		pattern: "unknown selection",
		msg: UserMessage{
			Message: "The selection is not in the catalogue",
			Action:  "Pick the category, type and subtype from the lists",
			Code:    "VAL002",
		},
	},

	// Quota
	{
		pattern: "word quota exceeded",
		msg: UserMessage{
			Message: "The download would exceed the word quota",
			Action:  "Remove rows or reset the quota",
			Code:    "QUO001",
		},
	},

	// Export
	{
		pattern: "nothing to export",
		msg: UserMessage{
			Message: "There are no rows to download",
			Action:  "Add a row or fill the form",
			Code:    "EXP001",
		},
	},
	{
		pattern: "unsupported export format",
		msg: UserMessage{
			Message: "This download format is not supported",
			Action:  "Download as CSV or XLSX",
			Code:    "EXP002",
		},
	},
	{
		pattern: "too many exports",
		msg: UserMessage{
			Message: "The server is busy generating other downloads",
			Action:  "Please try the download again",
			Code:    "EXP003",
		},
	},

	// Session
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your session has expired",
			Action:  "Reload the page to start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many sessions",
		msg: UserMessage{
			Message: "The server cannot open more sessions right now",
			Action:  "Please wait a moment and try again",
			Code:    "SES002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "SES003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "SES003",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the ERR000 fallback when no pattern matches and an empty
// message for a nil error.
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
