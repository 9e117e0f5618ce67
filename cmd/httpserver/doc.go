// Package main (cmd/httpserver) implements the vault API server.
//
// The server stores user accounts, their wrapped key material, and opaque
// encrypted object collections. All encryption and decryption happens in
// clients; the server only enforces authentication, ownership, and type
// partitioning.
//
// # Usage
//
//	vault-server \
//	    --listen-addr=0.0.0.0:8080 \
//	    --metrics-addr=0.0.0.0:8090 \
//	    --db=sqlite://vault.db \
//	    --jwt-secret=$VAULT_JWT_SECRET
//
// The JWT secret has no default; the server refuses to start without one.
// Prometheus metrics are served on a separate address so the scrape
// endpoint is never exposed on the public listener.
package main
