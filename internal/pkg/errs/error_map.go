/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template corresponding to every application
// error code. A zero Status defaults to HTTP 200 at construction time.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:   {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrPayloadTooLarge: {Code: ErrPayloadTooLarge, Message: "Message size is too large."},
	ErrInvalidPayload:  {Code: ErrInvalidPayload, Message: "Unsupported message format."},

	// 2xxx: Room and Content Business Logic Errors
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrImageTooLarge:         {Code: ErrImageTooLarge, Message: "Image is too large."},

	// 5xxx: Internal System Errors
	ErrUnknown:          {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreUnavailable: {Code: ErrStoreUnavailable, Message: "Message could not be saved. Please try again.", Status: http.StatusServiceUnavailable},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
