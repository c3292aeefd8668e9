// Package http implements HTTP request handlers for the election web
// service. Handlers stay thin: they parse and validate requests, delegate
// to the service layer and translate service errors into RFC 7807
// problem responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                              ↓
//	HTTP Response ← render.JSON / ProblemDetails ←┘
package http
