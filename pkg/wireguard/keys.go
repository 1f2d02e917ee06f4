package wireguard

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// GenerateKeyPair generates a WireGuard private/public key pair, equivalent
// to `wg genkey` piped through `wg pubkey`.
func GenerateKeyPair() (privateKey, publicKey string, err error) {
	var private [32]byte
	if _, err := rand.Read(private[:]); err != nil {
		return "", "", err
	}

	// Clamp the private key according to Curve25519 requirements
	private[0] &= 248
	private[31] &= 127
	private[31] |= 64

	var public [32]byte
	curve25519.ScalarBaseMult(&public, &private)

	privateKey = base64.StdEncoding.EncodeToString(private[:])
	publicKey = base64.StdEncoding.EncodeToString(public[:])

	return privateKey, publicKey, nil
}

// DerivePublicKey derives the public key from a base64-encoded private key.
func DerivePublicKey(privateKey string) (string, error) {
	private, err := base64.StdEncoding.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("decode private key: %w", err)
	}
	if len(private) != 32 {
		return "", fmt.Errorf("invalid private key length %d, expected 32", len(private))
	}

	var privateArray, publicArray [32]byte
	copy(privateArray[:], private)
	curve25519.ScalarBaseMult(&publicArray, &privateArray)

	return base64.StdEncoding.EncodeToString(publicArray[:]), nil
}
