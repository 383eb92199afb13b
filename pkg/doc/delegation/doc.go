/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package delegation implements scoped, chained delegation credentials.
//
// An issuer grants a subject a scoped permission as a signed credential. The
// subject may re-delegate a narrower scope to a further subject, forming a
// chain rooted at a trusted issuer. A holder bundles the chain into a
// presentation bound to its own key, and a verifier validates the whole chain
// offline: signatures, linkage, scope monotonicity, depth and expiry.
//
// The package provides the shared engine (scope algebra, key material,
// credential and presentation model, issuer, assembler, verifier, compact
// token codec). The subpackages proposed and pjv supply the two protocol
// variants, which differ only in how the canonical signed payload binds a
// credential to its parent.
package delegation
