// Package router serves typed handlers over go-chi/chi.
//
// Handlers receive a context type C (any handler.Context) and return a
// handler.Response. Returned errors and recovered panics go to the
// router's error handler; unmatched paths and methods reach it as
// ErrNotFound and ErrMethodNotAllowed after passing through the router
// middlewares.
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.ErrorHandler[*router.Context]),
//	)
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/kitties/{category}", showCategory)
//	r.Mount("/static", static.FS(assets))
//
// Middlewares are bound when a route is registered, so Use must be called
// before any route. With and Group derive routers that share the same
// routing table but carry extra middlewares.
package router
