// Package vaulthandler exposes account lifecycle over HTTP: registration,
// login, token refresh, and the authenticated account view.
//
// Registration and login both return vault material the client decrypts
// locally; the handlers never see a plaintext private key.
package vaulthandler
