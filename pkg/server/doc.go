// Package server exposes the smoothing pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/smooth   smooth a graph, respond with the result graph as JSON
//	POST /v1/render   smooth a graph, respond with the encoded artifact
//	POST /v1/levels   critical values, gaps and the critical ε
//	POST /v1/sweep    node and level counts over evenly spaced ε
//	GET  /healthz     liveness probe
//	GET  /metrics     Prometheus metrics
//
// Graphs are sent either as a JSON graph object in "graph" or in the
// two-line literal form in "literal":
//
//	{"literal": "[0, 1, 3]\n[(0, 1), (0, 1), (1, 2), (1, 2)]", "epsilon": "0.5"}
//
// Failures use a uniform envelope whose code comes from pkg/errors:
//
//	{"error": "epsilon \"x\" is not a number", "code": "INVALID_EPSILON"}
package server
