// Package api holds the wire types shared between the HTTP handlers and
// their clients, plus the mapping from domain errors to HTTP status codes.
//
// All binary fields travel as standard base64 strings; raw bytes never
// appear in JSON bodies.
package api
