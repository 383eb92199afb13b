/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

// Canonicalizer builds the canonical signed payload of a protocol variant.
// Each variant keeps its payload construction here, colocated and
// independently testable, so the shared issuer and verifier contain no
// variant branching.
type Canonicalizer interface {
	// ParentRef derives the reference a child credential carries to bind it
	// to parent.
	ParentRef(parent *Credential) (*ParentRef, error)

	// SigningInput builds the byte payload the issuer signs and the verifier
	// recomputes for the given claims and parent reference (nil for a root).
	SigningInput(claims ClaimSet, parent *ParentRef) ([]byte, error)
}

// Protocol is the capability set of one delegation protocol variant:
// issue a credential, assemble a presentation, verify a presentation. The
// benchmark harness is written once against this interface.
type Protocol interface {
	// Name identifies the variant in reports.
	Name() string

	// Issue creates a signed delegation credential. For hops beyond the
	// root, issuerKeys must belong to parent's subject and scope must narrow
	// parent's scope.
	Issue(issuerKeys *KeyPair, subject string, scope Scope, parent *Credential) (*Credential, error)

	// Assemble bundles an ordered chain into a holder-bound presentation.
	Assemble(creds []*Credential, holder *KeyPair) (*Presentation, error)

	// Verify validates a presentation end-to-end and returns the effective
	// granted scope, the leaf credential's scope.
	Verify(p *Presentation, roots TrustedRoots) (Scope, error)
}
