// Package server implements the ontoviz HTTP API.
//
// # Endpoints
//
//	GET    /healthz                   liveness and build information
//	POST   /v1/layout                 snapshot + options → layout payload
//	POST   /v1/render/{format}        snapshot + options → one artifact
//	POST   /v1/hulls                  nodes + positions → group hulls
//	POST   /v1/views/{view}/frames    snapshot + options → SSE frame stream
//	DELETE /v1/views/{view}/frames    stop the live stream of a view
//
// Errors are JSON objects carrying the coded error from pkg/errors; the HTTP
// status follows the code. Every response carries an X-Request-ID header.
//
// # Frame streams
//
// A frame stream emits one "frame" event per simulation step and ends with
// "done". Starting a new stream for a view supersedes the previous one: the
// older stream receives a "superseded" event and closes, and none of its
// later frames are sent. With a Redis-backed generation store this holds
// across API replicas.
package server
