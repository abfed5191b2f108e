// Package keygen provides validation helpers for SSH key material.
//
// EC2 returns private key material exactly once at key pair creation time.
// Before that material is persisted locally it is parsed to catch truncated
// or corrupted responses while re-requesting is still impossible.
package keygen

import (
	"fmt"

	"golang.org/x/crypto/ssh"
)

// ValidateKeyMaterial parses PEM-encoded private key material and returns
// the SSH public key fingerprint (SHA256 form).
func ValidateKeyMaterial(material []byte) (string, error) {
	if len(material) == 0 {
		return "", fmt.Errorf("key material is empty")
	}

	signer, err := ssh.ParsePrivateKey(material)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key material: %w", err)
	}

	return ssh.FingerprintSHA256(signer.PublicKey()), nil
}
