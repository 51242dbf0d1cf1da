package router

import (
	"net/http"

	"github.com/dmitrymomot/galleri/core/handler"
)

// Router registers typed handlers and serves them as an http.Handler.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])

	// Handle registers h for every HTTP method.
	Handle(pattern string, h handler.HandlerFunc[C])
	// Method registers h for the listed HTTP methods.
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)
	// Mount attaches a plain http.Handler (file servers, metrics) under pattern.
	// Router middlewares are not applied to mounted handlers.
	Mount(pattern string, h http.Handler)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]
	Route(pattern string, fn func(r Router[C])) Router[C]
}

// Routes provides route introspection.
type Routes interface {
	Routes() []Route
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router. Custom context types need WithContextFactory.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
