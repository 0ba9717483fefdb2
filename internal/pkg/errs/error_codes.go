/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrPayloadTooLarge indicates that an inbound frame exceeded the size limit.
	ErrPayloadTooLarge = 1002

	// ErrInvalidPayload indicates that an inbound frame could not be decoded.
	ErrInvalidPayload = 1003
)

// 2xxx: Room and Content Business Logic Errors
const (
	// ErrMessageContentTooLong indicates that message content exceeded the maximum length.
	ErrMessageContentTooLong = 2201

	// ErrImageTooLarge indicates that an uploaded image exceeded the size limit.
	ErrImageTooLarge = 2202
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStoreUnavailable indicates that the message store could not be reached.
	ErrStoreUnavailable = 5001

	// ErrFileStorageFailed indicates that persisting an uploaded file failed.
	ErrFileStorageFailed = 5002
)
