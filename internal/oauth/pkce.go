package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// pkceVerifierBytes is the number of random bytes for the PKCE code
	// verifier. 96 bytes base64url-encode to exactly 128 characters, the
	// maximum verifier length RFC 7636 allows.
	pkceVerifierBytes = 96

	// maxVerifierLength is the RFC 7636 upper bound on verifier length.
	maxVerifierLength = 128

	// stateBytes is the number of random bytes for the OAuth state
	// parameter. 32 bytes encode to 43 base64url characters.
	stateBytes = 32
)

// PKCEChallenge holds a PKCE (Proof Key for Code Exchange) verifier and
// challenge pair. The verifier is kept secret for the token exchange;
// the challenge is sent in the authorization request.
type PKCEChallenge struct {
	CodeVerifier        string
	CodeChallenge       string
	CodeChallengeMethod string
}

// GeneratePKCE generates a new PKCE code verifier and its S256 challenge.
// The verifier is 128 base64url characters; the challenge is the
// SHA-256 hash of the verifier, base64url-encoded without padding.
func GeneratePKCE() (*PKCEChallenge, error) {
	verifierBytes := make([]byte, pkceVerifierBytes)
	if _, err := rand.Read(verifierBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes for PKCE: %w", err)
	}

	verifier := base64.RawURLEncoding.EncodeToString(verifierBytes)
	if len(verifier) > maxVerifierLength {
		verifier = verifier[:maxVerifierLength]
	}

	return &PKCEChallenge{
		CodeVerifier:        verifier,
		CodeChallenge:       CodeChallengeS256(verifier),
		CodeChallengeMethod: "S256",
	}, nil
}

// CodeChallengeS256 derives the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) with padding stripped. Deterministic, so
// the same verifier always yields the same challenge.
func CodeChallengeS256(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// GenerateState generates a random state parameter linking the
// authorization response back to the original request.
func GenerateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
