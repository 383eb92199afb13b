/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Issuer creates signed delegation credentials using a variant's canonical
// payload construction. It holds no state and persists nothing: issuance
// errors are local and recoverable, and never affect existing credentials.
type Issuer struct {
	canon Canonicalizer
	now   func() time.Time
}

// NewIssuer returns an issuer backed by the given canonicalizer.
func NewIssuer(canon Canonicalizer) *Issuer {
	return &Issuer{canon: canon, now: time.Now}
}

// Issue creates an immutable signed credential granting scope to subject.
//
// For a root credential (parent nil) the scope must carry at least one action
// and a depth budget of at least one. For further hops, issuerKeys must
// belong to parent's subject (you can only delegate what was delegated to
// you) and scope must be a valid narrowing of parent's scope; a parent whose
// depth budget is exhausted admits no narrowing at all.
func (i *Issuer) Issue(issuerKeys *KeyPair, subject string, scope Scope, parent *Credential) (*Credential, error) {
	if len(scope.Actions) == 0 {
		return nil, fmt.Errorf("%w: empty action set", ErrScopeViolation)
	}

	var (
		parentRef *ParentRef
		err       error
	)

	if parent != nil {
		if issuerKeys.ID != parent.Subject {
			return nil, fmt.Errorf("%w: issuer %s is not the parent credential's subject %s",
				ErrChainBroken, issuerKeys.ID, parent.Subject)
		}

		if !Narrows(parent.Scope, scope) {
			return nil, fmt.Errorf("%w: requested scope does not narrow the parent scope",
				ErrScopeViolation)
		}

		parentRef, err = i.canon.ParentRef(parent)
		if err != nil {
			return nil, fmt.Errorf("build parent reference: %w", err)
		}
	} else if scope.MaxDepth < 1 {
		return nil, fmt.Errorf("%w: root depth budget must be at least 1", ErrScopeViolation)
	}

	claims := ClaimSet{
		ID:        fmt.Sprintf("urn:uuid:%s", uuid.NewString()),
		Issuer:    issuerKeys.ID,
		Subject:   subject,
		Scope:     scope.clone(),
		IssuedAt:  i.now().UnixNano(),
		ExpiresAt: scope.NotAfter,
	}

	input, err := i.canon.SigningInput(claims, parentRef)
	if err != nil {
		return nil, fmt.Errorf("build signing input: %w", err)
	}

	proof, err := EncodeProofValue(issuerKeys.Sign(input))
	if err != nil {
		return nil, err
	}

	return &Credential{ClaimSet: claims, Parent: parentRef, Proof: proof}, nil
}
