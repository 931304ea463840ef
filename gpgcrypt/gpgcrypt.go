/*
Copyright © 2025 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package gpgcrypt provides symmetric OpenPGP encryption for metadata that
// travels through build requests, such as image author information. The
// Encryptor interface keeps callers independent of the OpenPGP
// implementation so tests can substitute a fake.
package gpgcrypt

import (
	"bytes"
	"fmt"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// Encryptor encrypts a plaintext with a passphrase and returns an
// ASCII-armored ciphertext.
type Encryptor interface {
	Encrypt(plaintext, passphrase string) (string, error)
}

// Symmetric implements Encryptor using OpenPGP symmetric encryption
// (equivalent to `gpg --symmetric --armor`).
type Symmetric struct{}

// NewSymmetric returns a Symmetric encryptor.
func NewSymmetric() *Symmetric {
	return &Symmetric{}
}

// Encrypt encrypts plaintext with the passphrase and returns the armored
// PGP message.
func (s *Symmetric) Encrypt(plaintext, passphrase string) (string, error) {
	if passphrase == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}

	var buf bytes.Buffer

	armorWriter, err := armor.Encode(&buf, "PGP MESSAGE", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create armor encoder: %w", err)
	}

	cipherWriter, err := openpgp.SymmetricallyEncrypt(
		armorWriter, []byte(passphrase), nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start symmetric encryption: %w", err)
	}

	if _, err := cipherWriter.Write([]byte(plaintext)); err != nil {
		return "", fmt.Errorf("failed to encrypt plaintext: %w", err)
	}

	// Close order matters: the cipher writer flushes into the armor writer.
	if err := cipherWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize ciphertext: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize armor: %w", err)
	}

	return buf.String(), nil
}
