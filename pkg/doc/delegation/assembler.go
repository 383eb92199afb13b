/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"fmt"
)

// Assembler collects an ordered credential chain into a presentation bound
// to the holder's key. It re-validates linkage and narrowing as a fast local
// pre-check but does not re-verify signatures; that is the verifier's job,
// keeping the two roles separately measurable.
type Assembler struct{}

// NewAssembler returns a chain assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble bundles creds (root to leaf) into a presentation and signs the
// holder-binding proof with holder's private key, proving possession. The
// holder must be the leaf credential's subject.
func (a *Assembler) Assemble(creds []*Credential, holder *KeyPair) (*Presentation, error) {
	if err := precheckChain(creds); err != nil {
		return nil, err
	}

	leaf := creds[len(creds)-1]
	if holder.ID != leaf.Subject {
		return nil, fmt.Errorf("%w: holder %s is not the leaf credential's subject %s",
			ErrChainBroken, holder.ID, leaf.Subject)
	}

	p := &Presentation{
		Context:     []string{ContextV2},
		Type:        []string{PresentationType},
		Holder:      holder.ID,
		Credentials: creds,
	}

	input, err := p.signingInput()
	if err != nil {
		return nil, fmt.Errorf("build holder binding input: %w", err)
	}

	p.proof = holder.Sign(input)

	return p, nil
}

func precheckChain(creds []*Credential) error {
	if len(creds) == 0 {
		return fmt.Errorf("%w: empty credential chain", ErrChainBroken)
	}

	if creds[0].Parent != nil {
		return fmt.Errorf("%w: root credential carries a parent reference", ErrChainBroken)
	}

	for i := 0; i < len(creds)-1; i++ {
		if creds[i].Subject != creds[i+1].Issuer {
			return fmt.Errorf("%w: credential %d subject %s does not match credential %d issuer %s",
				ErrChainBroken, i, creds[i].Subject, i+1, creds[i+1].Issuer)
		}

		if !Narrows(creds[i].Scope, creds[i+1].Scope) {
			return fmt.Errorf("%w: credential %d does not narrow its parent", ErrScopeViolation, i+1)
		}
	}

	return nil
}
