// Package server exposes fixture ordering over HTTP.
//
// # Routes
//
//	GET  /healthz                   liveness and build version
//	GET  /v1/fixtures               fixtures of the served manifest
//	GET  /v1/order?only=a,b         load order of all fixtures, or of a subset
//	GET  /v1/fixtures/{name}/order  load order of one fixture
//	GET  /v1/graph                  DOT source (?format=svg, ?detailed=true)
//	POST /v1/resolve                load order of a manifest sent in the body
//
// Errors are returned as JSON objects with "code" and "message" fields
// using the codes of [ferrors.Code].
//
// The served manifest is read once at startup and never mutated, so
// handlers share it without locking.
//
// [ferrors.Code]: github.com/matzehuels/fixturegraph/pkg/errors.Code
package server
