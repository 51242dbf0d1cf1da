// Package clientip extracts the client IP address from HTTP requests,
// honouring common proxy headers.
//
//	ip := clientip.GetIP(r)
//
// Header priority: CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For,
// X-Real-IP, then RemoteAddr. Addresses are validated and normalized;
// 0.0.0.0 and :: are rejected.
package clientip
