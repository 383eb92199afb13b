/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"crypto/ed25519"
	"fmt"
	"time"
)

// Verifier validates presentations end-to-end against a trusted root set,
// recomputing each credential's canonical payload with the variant's
// canonicalizer. Verification is a pure function of its inputs: it never
// mutates the presentation and holds no state across calls.
type Verifier struct {
	canon Canonicalizer
	now   func() time.Time
}

// NewVerifier returns a verifier backed by the given canonicalizer.
func NewVerifier(canon Canonicalizer) *Verifier {
	return &Verifier{canon: canon, now: time.Now}
}

// Verify checks a presentation and returns the effective granted scope, the
// leaf credential's scope. It short-circuits on the first decisive failure;
// there is no partial acceptance. Checks run cheapest first (root trust,
// linkage, depth, signatures, narrowing, expiry, holder binding) but any
// single violation fails the presentation regardless of order.
func (v *Verifier) Verify(p *Presentation, roots TrustedRoots) (Scope, error) {
	if p == nil || len(p.Credentials) == 0 {
		return Scope{}, fmt.Errorf("%w: empty presentation", ErrChainBroken)
	}

	creds := p.Credentials
	root := creds[0]

	if root.Parent != nil {
		return Scope{}, fmt.Errorf("%w: root credential carries a parent reference", ErrChainBroken)
	}

	if !roots.Contains(root.Issuer) {
		return Scope{}, fmt.Errorf("%w: %s", ErrUntrustedRoot, root.Issuer)
	}

	for i := 0; i < len(creds)-1; i++ {
		if creds[i].Subject != creds[i+1].Issuer {
			return Scope{}, fmt.Errorf("%w: credential %d subject %s does not match credential %d issuer %s",
				ErrChainBroken, i, creds[i].Subject, i+1, creds[i+1].Issuer)
		}
	}

	if len(creds) > root.Scope.MaxDepth {
		return Scope{}, fmt.Errorf("%w: chain length %d exceeds root depth budget %d",
			ErrDepthExceeded, len(creds), root.Scope.MaxDepth)
	}

	if err := v.verifyProofs(creds); err != nil {
		return Scope{}, err
	}

	for i := 0; i < len(creds)-1; i++ {
		if !Narrows(creds[i].Scope, creds[i+1].Scope) {
			return Scope{}, fmt.Errorf("%w: credential %d does not narrow its parent", ErrScopeViolation, i+1)
		}
	}

	now := v.now().UnixNano()

	for i, cred := range creds {
		if now > cred.ExpiresAt {
			return Scope{}, fmt.Errorf("%w: credential %d", ErrExpiredCredential, i)
		}
	}

	if err := v.verifyHolderBinding(p); err != nil {
		return Scope{}, err
	}

	return creds[len(creds)-1].Scope.clone(), nil
}

// verifyProofs recomputes, per credential, the parent reference from the
// actually presented parent and the canonical payload, then checks the
// Ed25519 signature against the key recovered from the issuer identifier.
// A stored parent reference differing from the recomputed one is treated as
// a signature failure: the signed linkage no longer matches the chain.
func (v *Verifier) verifyProofs(creds []*Credential) error {
	var parent *Credential

	for i, cred := range creds {
		var (
			ref *ParentRef
			err error
		)

		if parent != nil {
			ref, err = v.canon.ParentRef(parent)
			if err != nil {
				return fmt.Errorf("%w: rebuild parent reference of credential %d: %s",
					ErrInvalidSignature, i, err)
			}
		}

		if !parentRefEqual(ref, cred.Parent) {
			return fmt.Errorf("%w: credential %d parent reference does not match the presented parent",
				ErrInvalidSignature, i)
		}

		input, err := v.canon.SigningInput(cred.Claims(), ref)
		if err != nil {
			return fmt.Errorf("%w: rebuild signing input of credential %d: %s", ErrInvalidSignature, i, err)
		}

		pub, err := PubKeyFromDID(cred.Issuer)
		if err != nil {
			return fmt.Errorf("%w: credential %d issuer key: %s", ErrInvalidSignature, i, err)
		}

		sig, err := DecodeProofValue(cred.Proof)
		if err != nil {
			return fmt.Errorf("%w: credential %d proof: %s", ErrInvalidSignature, i, err)
		}

		if !ed25519.Verify(pub, input, sig) {
			return fmt.Errorf("%w: credential %d", ErrInvalidSignature, i)
		}

		parent = cred
	}

	return nil
}

func (v *Verifier) verifyHolderBinding(p *Presentation) error {
	leaf := p.Credentials[len(p.Credentials)-1]

	if p.Holder != leaf.Subject {
		return fmt.Errorf("%w: holder %s is not the leaf credential's subject %s",
			ErrInvalidSignature, p.Holder, leaf.Subject)
	}

	pub, err := PubKeyFromDID(p.Holder)
	if err != nil {
		return fmt.Errorf("%w: holder key: %s", ErrInvalidSignature, err)
	}

	input, err := p.signingInput()
	if err != nil {
		return fmt.Errorf("%w: rebuild holder binding input: %s", ErrInvalidSignature, err)
	}

	if !ed25519.Verify(pub, input, p.proof) {
		return fmt.Errorf("%w: holder binding proof", ErrInvalidSignature)
	}

	return nil
}
