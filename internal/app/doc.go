// Package app assembles the galleri web application from Config: storage
// (PostgreSQL, Redis or memory), the cookie and session layers, page
// handlers, metrics and the HTTP server.
package app
