// Package model defines the Idea entity, its request types and the API
// error taxonomy shared by every layer.
//
// # Entities
//
//   - Idea: a title/description pair owned by one author, with a set of
//     users who liked it
//   - UserSummary: id and display name used when rendering authors and likers
//
// # Validation
//
// Request types expose Validate, which returns one FieldError per violated
// field. Lengths are counted in characters after trimming whitespace:
//
//	const (
//	    MinTitleLength       = 3
//	    MaxTitleLength       = 100
//	    MinDescriptionLength = 10
//	    MaxDescriptionLength = 500
//	)
//
// # Errors
//
// APIError carries the HTTP status, an internal ErrorCode and the
// client-facing message. Only the message is serialized:
//
//	{"message": "Idea not found"}
package model
