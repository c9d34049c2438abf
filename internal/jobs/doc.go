// Package jobs runs background maintenance for the idea API
// independently of HTTP request handling.
package jobs
