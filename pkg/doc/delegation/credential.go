/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"crypto/sha256"
	"fmt"

	"github.com/multiformats/go-multibase"
)

// ContextV2 is the W3C credentials context carried by presentations.
const ContextV2 = "https://www.w3.org/ns/credentials/v2"

// PresentationType is the type marker of an encoded presentation.
const PresentationType = "VerifiablePresentation"

// ClaimSet is the signed core of a delegation credential: who grants what to
// whom, and for how long. Timestamps are Unix nanoseconds.
type ClaimSet struct {
	ID        string `json:"id"`
	Issuer    string `json:"iss"`
	Subject   string `json:"sub"`
	Scope     Scope  `json:"scope"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// ParentRef links a credential to its parent. The two variants populate it
// differently: the hash-chain variant carries a digest of the parent's proof,
// the bundle variant carries the claim sets of every ancestor. A root
// credential has no parent reference.
type ParentRef struct {
	Digest string     `json:"digest,omitempty"`
	Bundle []ClaimSet `json:"bundle,omitempty"`
}

// Credential is a single signed delegation hop. Immutable once issued; the
// proof covers the variant's full canonical payload including the parent
// reference, so any tamper invalidates it.
type Credential struct {
	ClaimSet

	Parent *ParentRef `json:"parent,omitempty"`
	Proof  string     `json:"proof"`
}

// Claims returns a copy of the credential's claim set.
func (c *Credential) Claims() ClaimSet {
	claims := c.ClaimSet
	claims.Scope = c.Scope.clone()

	return claims
}

// Presentation is an ordered credential chain from root to leaf plus a
// holder-binding proof over the serialized chain. Produced by an Assembler,
// consumed (never mutated) by a Verifier.
type Presentation struct {
	Context     []string
	Type        []string
	Holder      string
	Credentials []*Credential

	proof []byte
}

// Proof returns a copy of the holder-binding signature.
func (p *Presentation) Proof() []byte {
	out := make([]byte, len(p.proof))
	copy(out, p.proof)

	return out
}

// TrustedRoots is the set of issuer identities a verifier accepts as
// authoritative roots. Read-only during verification.
type TrustedRoots map[string]struct{}

// NewTrustedRoots builds a trusted root set from issuer identifiers.
func NewTrustedRoots(ids ...string) TrustedRoots {
	roots := make(TrustedRoots, len(ids))

	for _, id := range ids {
		roots[id] = struct{}{}
	}

	return roots
}

// Contains reports whether id is a trusted root.
func (t TrustedRoots) Contains(id string) bool {
	_, ok := t[id]

	return ok
}

// EncodeProofValue encodes a raw signature or digest as a multibase
// base64url string, the form proofs take inside credentials.
func EncodeProofValue(raw []byte) (string, error) {
	encoded, err := multibase.Encode(multibase.Base64url, raw)
	if err != nil {
		return "", fmt.Errorf("encode proof value: %w", err)
	}

	return encoded, nil
}

// DecodeProofValue decodes a multibase proof string back to raw bytes.
func DecodeProofValue(encoded string) ([]byte, error) {
	_, raw, err := multibase.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode proof value: %w", err)
	}

	return raw, nil
}

// ProofDigest computes the multibase-encoded SHA-256 digest of a credential
// proof, the link material of the hash-chain variant.
func ProofDigest(proof string) (string, error) {
	raw, err := DecodeProofValue(proof)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(raw)

	return EncodeProofValue(sum[:])
}

func claimSetEqual(a, b ClaimSet) bool {
	return a.ID == b.ID &&
		a.Issuer == b.Issuer &&
		a.Subject == b.Subject &&
		a.IssuedAt == b.IssuedAt &&
		a.ExpiresAt == b.ExpiresAt &&
		scopeEqual(a.Scope, b.Scope)
}

func parentRefEqual(a, b *ParentRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Digest != b.Digest || len(a.Bundle) != len(b.Bundle) {
		return false
	}

	for i := range a.Bundle {
		if !claimSetEqual(a.Bundle[i], b.Bundle[i]) {
			return false
		}
	}

	return true
}
