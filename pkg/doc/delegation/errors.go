/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import "errors"

// Typed failures produced by issuance, assembly and verification. Callers
// match them with errors.Is; every returned error wraps exactly one of these.
var (
	// ErrScopeViolation indicates a broken narrowing invariant, at issuance
	// or between adjacent credentials of a presented chain.
	ErrScopeViolation = errors.New("scope violation")

	// ErrChainBroken indicates a subject/issuer linkage mismatch.
	ErrChainBroken = errors.New("chain broken")

	// ErrInvalidSignature indicates a failed cryptographic check on a
	// credential proof or on the holder-binding proof.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrExpiredCredential indicates a credential past its expiry.
	ErrExpiredCredential = errors.New("expired credential")

	// ErrDepthExceeded indicates a chain longer than the root's depth budget.
	ErrDepthExceeded = errors.New("depth exceeded")

	// ErrUntrustedRoot indicates a chain not rooted at a trusted issuer.
	ErrUntrustedRoot = errors.New("untrusted root")
)
