// Package objecthandler exposes the encrypted object collections over HTTP.
//
// The server treats every ciphertext as an opaque blob: it enforces
// ownership, partitions by object type, and orders listings, but never
// inspects or validates the plaintext structure. Objects belonging to other
// users or other type partitions are indistinguishable from objects that do
// not exist.
package objecthandler
