package client

import "net/http"

// Identity is one credential context used to authenticate remote calls. Two
// of them exist per process: the primary identity and an optional alternate
// identity used for blocked-content fallback. Identities are immutable for
// the process lifetime.
type Identity struct {
	Name        string
	Token       string
	TokenSecret string
}

// Configured reports whether this identity carries usable credentials.
func (i Identity) Configured() bool {
	return i.Token != ""
}

// Signer attaches credentials for the given identity to an outgoing request.
// Credential acquisition and the signature scheme itself are collaborator
// concerns; the transport only selects which identity to sign with.
type Signer interface {
	Sign(req *http.Request, id Identity) error
}

// BearerSigner signs requests with a static bearer token.
type BearerSigner struct{}

func (BearerSigner) Sign(req *http.Request, id Identity) error {
	if id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}
	return nil
}
