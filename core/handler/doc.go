// Package handler defines the request-handling contract shared by the router,
// middleware and application handlers.
//
// A handler receives a typed Context and returns a Response closure. The
// router executes the closure after the middleware chain has run, so
// middleware may set headers and cookies on ctx.ResponseWriter() before the
// body is written:
//
//	func show(ctx *router.Context) handler.Response {
//		return response.String("hello " + ctx.Param("name"))
//	}
//
// Middleware composes with Chain; the first middleware listed is the
// outermost one.
package handler
