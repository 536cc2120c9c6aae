// Package http implements the REST API of the certificate service.
//
// It wires chi routes to the auth and workflow services and owns the
// transport concerns: session extraction from a bearer header or cookie,
// request tracing, access logging, gzip and mapping service errors to
// status codes with a JSON {"error": ...} body.
package http
