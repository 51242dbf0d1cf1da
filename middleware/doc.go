// Package middleware provides handler.Middleware implementations shared by
// the web application: request ids, client IP extraction, request logging,
// HTTP metrics, body limits, security headers and visitor sessions.
//
// Middlewares are generic over the handler context type:
//
//	r := router.New[*router.Context]()
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.ClientIP[*router.Context](),
//		middleware.Logging[*router.Context](log),
//		middleware.Session[*router.Context](middleware.SessionConfig[*router.Context]{
//			Manager:   session.NewManager(store),
//			Transport: sessiontransport.NewCookie(cookies),
//		}),
//	)
//
// The session middleware guarantees that every request reaching a handler
// has a resolved session (see GetSession) and that the response carries a
// freshly signed session cookie. DeleteSession removes the session and
// expires that cookie instead.
package middleware
