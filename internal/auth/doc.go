// Package auth verifies bearer credentials and checks permissions.
//
// Two [Verifier] strategies exist and exactly one is selected from configuration:
//
//   - [StaticVerifier] maps opaque development tokens ("assistant", "director", ...) to fixed permissions.
//   - [JWKSVerifier] validates RS256 JSON Web Tokens against the signing keys published at
//     https://{domain}/.well-known/jwks.json.
//
// Every failure is returned as an [*Error] carrying a machine-readable code, the HTTP status to
// respond with and a human-readable description.
package auth
