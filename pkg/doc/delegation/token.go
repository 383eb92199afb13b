/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v3"
)

// tokenHeader is the protected JWS header of an encoded presentation. Kept as
// a fixed literal so the holder-binding input is reproducible byte for byte.
const tokenHeader = `{"alg":"EdDSA","typ":"JWT"}`

type presentationClaims struct {
	Context     []string      `json:"@context"`
	Type        []string      `json:"type"`
	Holder      string        `json:"holder"`
	Credentials []*Credential `json:"verifiableCredential"`
}

// signingInput returns the JWS signing input of the serialized presentation:
// base64url(header) || '.' || base64url(payload). The holder-binding proof is
// an Ed25519 signature over exactly these bytes, so the encoded token is a
// valid compact JWS.
func (p *Presentation) signingInput() ([]byte, error) {
	payload, err := json.Marshal(presentationClaims{
		Context:     p.Context,
		Type:        p.Type,
		Holder:      p.Holder,
		Credentials: p.Credentials,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal presentation claims: %w", err)
	}

	enc := base64.RawURLEncoding

	input := enc.EncodeToString([]byte(tokenHeader)) + "." + enc.EncodeToString(payload)

	return []byte(input), nil
}

// EncodePresentation serializes a presentation as a compact token with
// header, payload and signature segments (base64url, dot-separated). The
// signature segment is the holder-binding proof.
func EncodePresentation(p *Presentation) (string, error) {
	if len(p.proof) == 0 {
		return "", errors.New("presentation carries no holder binding proof")
	}

	input, err := p.signingInput()
	if err != nil {
		return "", err
	}

	return string(input) + "." + base64.RawURLEncoding.EncodeToString(p.proof), nil
}

// DecodePresentation parses a compact token back into a structured
// presentation. It is a mechanical transform with no signature, linkage or
// scope checking; pass the result to a Verifier.
func DecodePresentation(token string) (*Presentation, error) {
	jws, err := jose.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("parse presentation token: %w", err)
	}

	if len(jws.Signatures) != 1 {
		return nil, fmt.Errorf("expected a single signature, got %d", len(jws.Signatures))
	}

	var claims presentationClaims

	if err := json.Unmarshal(jws.UnsafePayloadWithoutVerification(), &claims); err != nil {
		return nil, fmt.Errorf("unmarshal presentation claims: %w", err)
	}

	return &Presentation{
		Context:     claims.Context,
		Type:        claims.Type,
		Holder:      claims.Holder,
		Credentials: claims.Credentials,
		proof:       jws.Signatures[0].Signature,
	}, nil
}
