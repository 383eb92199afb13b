/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation"
	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation/pjv"
	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation/proposed"
)

// The two variants must accept and reject the same chains for the same
// reasons; they may differ only in cost and encoded size.
func TestVariantParity(t *testing.T) {
	scenarios := []struct {
		name    string
		run     func(t *testing.T, proto delegation.Protocol) error
		wantErr error
	}{
		{
			name: "valid two hop chain",
			run: func(t *testing.T, proto delegation.Protocol) error {
				t.Helper()

				pres, roots := buildPresentation(t, proto, 2)
				_, err := proto.Verify(pres, roots)

				return err
			},
		},
		{
			name: "untrusted root",
			run: func(t *testing.T, proto delegation.Protocol) error {
				t.Helper()

				pres, _ := buildPresentation(t, proto, 2)
				_, err := proto.Verify(pres, delegation.NewTrustedRoots("did:key:zOther"))

				return err
			},
			wantErr: delegation.ErrUntrustedRoot,
		},
		{
			name: "tampered leaf scope",
			run: func(t *testing.T, proto delegation.Protocol) error {
				t.Helper()

				pres, roots := buildPresentation(t, proto, 2)
				pres.Credentials[1].Scope.MaxDepth = 9

				_, err := proto.Verify(pres, roots)

				return err
			},
			wantErr: delegation.ErrInvalidSignature,
		},
		{
			name: "reversed chain",
			run: func(t *testing.T, proto delegation.Protocol) error {
				t.Helper()

				pres, roots := buildPresentation(t, proto, 2)
				pres.Credentials[0], pres.Credentials[1] = pres.Credentials[1], pres.Credentials[0]

				_, err := proto.Verify(pres, roots)

				return err
			},
			wantErr: delegation.ErrChainBroken,
		},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			errProposed := sc.run(t, proposed.New())
			errPJV := sc.run(t, pjv.New())

			if sc.wantErr == nil {
				require.NoError(t, errProposed)
				require.NoError(t, errPJV)

				return
			}

			require.ErrorIs(t, errProposed, sc.wantErr)
			require.ErrorIs(t, errPJV, sc.wantErr)
		})
	}
}

// buildPresentation issues a fresh chain of the given depth, encodes it and
// decodes it back, returning a mutable presentation plus its trusted roots.
func buildPresentation(t *testing.T, proto delegation.Protocol,
	depth int) (*delegation.Presentation, delegation.TrustedRoots) {
	t.Helper()

	notAfter := time.Now().Add(time.Hour).UnixNano()

	keys := make([]*delegation.KeyPair, depth+1)

	for i := range keys {
		kp, err := delegation.GenerateKeyPair()
		require.NoError(t, err)

		keys[i] = kp
	}

	actions := make([]string, depth+1)
	for i := range actions {
		actions[i] = fmt.Sprintf("action:%d", i)
	}

	var (
		parent *delegation.Credential
		creds  []*delegation.Credential
	)

	for hop := 0; hop < depth; hop++ {
		scope := delegation.NewScope(actions[:depth+1-hop], depth-hop, notAfter)

		cred, err := proto.Issue(keys[hop], keys[hop+1].ID, scope, parent)
		require.NoError(t, err)

		creds = append(creds, cred)
		parent = cred
	}

	pres, err := proto.Assemble(creds, keys[depth])
	require.NoError(t, err)

	token, err := delegation.EncodePresentation(pres)
	require.NoError(t, err)

	decoded, err := delegation.DecodePresentation(token)
	require.NoError(t, err)

	return decoded, delegation.NewTrustedRoots(keys[0].ID)
}
