// Package response builds handler.Response values for HTML pages,
// plain text, redirects and errors.
//
// Every constructor returns a closure that writes to the http.ResponseWriter
// when the router executes it. Template responses render into a buffer first
// so a failing template never leaves a half-written page behind:
//
//	func show(ctx *router.Context) handler.Response {
//		return response.TemplateName(pages, "category", data, http.StatusOK)
//	}
//
// Errors returned from a handler travel to the router's error handler.
// HTTPError carries the status, a machine-readable code and a message;
// AsHTTPError converts any error into one, honouring errors that expose
// a StatusCode method.
package response
