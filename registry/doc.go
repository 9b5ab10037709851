// Package registry implements the identity and session registry.
//
// It binds permanent identities to live connection handles, publishes
// short-lived discovery tokens, and keeps an in-process directory of public
// keys. Identities are opaque and client-supplied; the registry trusts them
// without verification. The key directory is a deliberate ephemeral cache:
// a restart loses every key while contacts and history survive.
package registry
