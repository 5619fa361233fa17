// Package secretbox cifra en reposo los secretos de la pasarela de pagos
// (secret_key, webhook_secret) con NaCl secretbox (XSalsa20-Poly1305).
package secretbox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

// Prefix marca los valores cifrados para distinguirlos de los heredados en claro.
const Prefix = "enc:v1:"

const (
	keySize   = 32
	nonceSize = 24
)

// ErrDecrypt indica un valor manipulado o cifrado con otra clave.
var ErrDecrypt = errors.New("secretbox: no se pudo descifrar el valor")

// Box cifra y descifra con una clave fija. Un Box sin clave deja los valores en claro.
type Box struct {
	key     *[keySize]byte
	enabled bool
}

// New construye el Box a partir de una clave hex de 32 bytes. Clave vacía = sin cifrado.
func New(hexKey string) (*Box, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return &Box{}, nil
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("secretbox: clave hex inválida: %w", err)
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("secretbox: la clave debe tener %d bytes, tiene %d", keySize, len(raw))
	}
	var key [keySize]byte
	copy(key[:], raw)
	return &Box{key: &key, enabled: true}, nil
}

// Enabled informa si hay clave configurada.
func (b *Box) Enabled() bool { return b != nil && b.enabled }

// Seal cifra plain. Sin clave devuelve plain tal cual; los valores vacíos no se cifran.
func (b *Box) Seal(plain string) (string, error) {
	if !b.Enabled() || plain == "" || strings.HasPrefix(plain, Prefix) {
		return plain, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secretbox: generar nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, b.key)
	return Prefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open descifra un valor producido por Seal. Los valores sin prefijo se devuelven tal cual.
func (b *Box) Open(value string) (string, error) {
	if !strings.HasPrefix(value, Prefix) {
		return value, nil
	}
	if !b.Enabled() {
		return "", fmt.Errorf("%w: PAYMENT_SETTINGS_KEY no configurada", ErrDecrypt)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil || len(raw) < nonceSize {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, b.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
