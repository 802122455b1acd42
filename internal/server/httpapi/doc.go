// Package httpapi exposes the token service over HTTP.
//
// Routes:
//
//	GET  /           liveness banner (text/plain)
//	GET  /check      ?token=<value>, validity verdict
//	POST /add_token  admin bearer token required; creates a token
//	GET  /healthz    storage reachability
//	GET  /metrics    Prometheus exposition
//
// Every request passes through request id, panic recovery and access log
// middlewares; /check may additionally be rate limited.
package httpapi
