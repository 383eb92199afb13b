/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDIDRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(kp.ID, "did:key:z"))

	pub, err := PubKeyFromDID(kp.ID)
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey, pub)
}

func TestPubKeyFromDIDErrors(t *testing.T) {
	tests := []struct {
		name string
		did  string
	}{
		{name: "not a did:key", did: "did:web:example.com"},
		{name: "missing multibase prefix", did: "did:key:6MkpTHR8VNs"},
		{name: "empty fingerprint", did: "did:key:"},
		{name: "wrong multicodec", did: "did:key:zQ3shokFTS3brHcDQrn82RUDfCZESWL1ZdCEJwekUDPQiYBme"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PubKeyFromDID(tc.did)
			require.Error(t, err)
		})
	}
}

func TestKeyPairFromSeed(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}

	kp1, err := KeyPairFromSeed(seed)
	require.NoError(t, err)

	kp2, err := KeyPairFromSeed(seed)
	require.NoError(t, err)

	require.Equal(t, kp1.ID, kp2.ID)

	t.Run("short seed rejected", func(t *testing.T) {
		_, err := KeyPairFromSeed(seed[:16])
		require.Error(t, err)
	})
}

func TestDeriveKeyPair(t *testing.T) {
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)

	t.Run("deterministic per trial and party", func(t *testing.T) {
		kp1, err := DeriveKeyPair(mnemonic, 7, 2)
		require.NoError(t, err)

		kp2, err := DeriveKeyPair(mnemonic, 7, 2)
		require.NoError(t, err)

		require.Equal(t, kp1.ID, kp2.ID)
	})

	t.Run("distinct parties get distinct keys", func(t *testing.T) {
		kp1, err := DeriveKeyPair(mnemonic, 7, 0)
		require.NoError(t, err)

		kp2, err := DeriveKeyPair(mnemonic, 7, 1)
		require.NoError(t, err)

		require.NotEqual(t, kp1.ID, kp2.ID)
	})

	t.Run("distinct trials get distinct keys", func(t *testing.T) {
		kp1, err := DeriveKeyPair(mnemonic, 0, 0)
		require.NoError(t, err)

		kp2, err := DeriveKeyPair(mnemonic, 1, 0)
		require.NoError(t, err)

		require.NotEqual(t, kp1.ID, kp2.ID)
	})

	t.Run("invalid mnemonic rejected", func(t *testing.T) {
		_, err := DeriveKeyPair("not a mnemonic", 0, 0)
		require.Error(t, err)
	})
}

func TestSignVerify(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	msg := []byte("delegation payload")
	sig := kp.Sign(msg)

	require.True(t, ed25519.Verify(kp.PublicKey, msg, sig))
	require.False(t, ed25519.Verify(kp.PublicKey, []byte("other payload"), sig))
}
