// Package errors defines the application error taxonomy and its HTTP
// rendering.
//
// Domain code returns *AppError values typed by ErrorType (NOT_FOUND for a
// missing input file, PARSING for an unreadable one, VALIDATION for bad
// parameters). HTTP code returns *APIError for request-level failures. The
// ErrorHandler turns either into an RFC 7807 problem document rendered
// through go-chi/render.
package errors
