// Package oauth implements the OAuth 2.0 credential lifecycle shared by
// all connector services.
//
// # Architecture
//
// Two entry points cover the whole lifecycle:
//
//   - Authenticator.Authenticate runs the one-time interactive
//     authorization-code flow: a local HTTP listener captures the
//     provider redirect, the code is exchanged for tokens, and the
//     normalized record is persisted.
//   - Authenticator.AccessToken is the non-interactive guard consulted
//     before every API call: it returns the stored token, refreshing it
//     first when it is expired or inside the 5-minute buffer.
//
// Service specifics (authorize parameters, token bodies, response
// validation, PKCE, Basic auth) live behind the Provider interface,
// implemented once per service in internal/providers.
//
// # Credential storage
//
// Records are read from and written to a credstore.Store keyed by
// (service, user). The core never deletes records; revocation is out of
// scope. Concurrent refreshes for the same key are collapsed with
// singleflight, so at most one token-endpoint POST and one store write
// happen per due refresh.
package oauth
