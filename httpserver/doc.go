// Package httpserver runs the public API server with its lifecycle
// endpoints and the Prometheus metrics sidecar.
//
// The server exposes four operational endpoints alongside the API:
// /livez and /readyz for orchestration probes, and /drain and /undrain to
// flip readiness ahead of a rollout so load balancers stop routing before
// the process shuts down.
package httpserver
