// Package handler provides the HTTP handlers for the idea API.
//
// Handlers decode requests, call the service layer and write JSON. Every
// error body has the shape {"message": "..."}; MapServiceError turns
// service errors into that shape with the matching status code.
package handler
