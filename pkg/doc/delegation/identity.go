/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/tyler-smith/go-bip39"
)

// ED25519PubKeyMultiCodec is the Ed25519 public key code in the multicodec
// table (https://github.com/multiformats/multicodec/blob/master/table.csv).
const ED25519PubKeyMultiCodec = 0xed

const didKeyPrefix = "did:key:"

// KeyPair holds a party's Ed25519 identity keys. Only the identifier and the
// public half are ever embedded in credentials.
type KeyPair struct {
	ID        string
	PublicKey ed25519.PublicKey

	privateKey ed25519.PrivateKey
}

// GenerateKeyPair creates a fresh Ed25519 keypair with a did:key identifier.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}

	return &KeyPair{ID: DIDFromPubKey(pub), PublicKey: pub, privateKey: priv}, nil
}

// KeyPairFromSeed builds a keypair from a 32-byte Ed25519 seed.
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	return &KeyPair{ID: DIDFromPubKey(pub), PublicKey: pub, privateKey: priv}, nil
}

// NewMnemonic creates a BIP-39 mnemonic usable for deterministic key material.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("build mnemonic: %w", err)
	}

	return mnemonic, nil
}

// DeriveKeyPair deterministically derives the keypair of a party within a
// trial from a BIP-39 mnemonic, so benchmark runs are reproducible.
func DeriveKeyPair(mnemonic string, trial, party uint32) (*KeyPair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")

	h := sha256.New()
	h.Write(seed)

	var idx [8]byte

	binary.BigEndian.PutUint32(idx[:4], trial)
	binary.BigEndian.PutUint32(idx[4:], party)
	h.Write(idx[:])

	return KeyPairFromSeed(h.Sum(nil))
}

// Sign signs msg with the private key.
func (k *KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.privateKey, msg)
}

// DIDFromPubKey derives the did:key identifier of an Ed25519 public key using
// the multicodec key fingerprint as per the did:key format spec found at:
// https://w3c-ccg.github.io/did-method-key/#format.
func DIDFromPubKey(pub ed25519.PublicKey) string {
	code := multicodec(ED25519PubKeyMultiCodec)

	buf := make([]byte, len(code)+len(pub))
	copy(buf, code)
	copy(buf[len(code):], pub)

	return fmt.Sprintf("%sz%s", didKeyPrefix, base58.Encode(buf))
}

// PubKeyFromDID recovers the Ed25519 public key from a did:key identifier.
// Identifiers are self-certifying, so a verifier never needs an issuer
// registry or any contact with the issuer.
func PubKeyFromDID(did string) (ed25519.PublicKey, error) {
	fingerprint := strings.TrimPrefix(did, didKeyPrefix)
	if fingerprint == did {
		return nil, fmt.Errorf("not a did:key identifier: %s", did)
	}

	if len(fingerprint) < 2 || fingerprint[0] != 'z' {
		return nil, errors.New("unknown key encoding")
	}

	decoded := base58.Decode(fingerprint[1:]) // skip leading "z"

	code, read := binary.Uvarint(decoded)
	if read <= 0 {
		return nil, errors.New("unknown key encoding")
	}

	if code != ED25519PubKeyMultiCodec {
		return nil, fmt.Errorf("unsupported key multicodec code [0x%x]", code)
	}

	key := decoded[read:]
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid ed25519 public key length %d", len(key))
	}

	return ed25519.PublicKey(key), nil
}

func multicodec(code uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, code)

	return buf[:n]
}
