// Package encoding seals widget configurations into URL-safe tokens.
//
// Deferred widgets carry their resolved configuration in the widget URL so
// the endpoint can rebuild the Instance without trusting query parameters.
// Two modes:
//   - Signed (default): base64 msgpack + HMAC, visible but tamper-proof
//   - Encrypted: AES-256-GCM, fully opaque
//
// Every token records its issue time; Decode rejects tokens older than the
// caller's max age.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidFormat    = errors.New("encoding: invalid token format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
	ErrExpired          = errors.New("encoding: token expired")
	ErrNotEncodable     = errors.New("encoding: type does not implement Encodable")
	ErrNotDecodable     = errors.New("encoding: type does not implement Decodable")
)

// Encoder seals and opens tokens with one key.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
	now func() time.Time
}

// NewEncoder creates an encoder. Keys shorter than 32 bytes are stretched
// with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) == 0 {
		return nil, errors.New("encoding: key is required")
	}
	if len(key) != 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		key: key,
		gcm: gcm,
		now: time.Now,
	}, nil
}

// SetClock replaces the time source. Tests only.
func (e *Encoder) SetClock(now func() time.Time) {
	e.now = now
}

// Encodable is implemented by values that can be sealed.
type Encodable interface {
	HXEncode() map[string]any
}

// Decodable is implemented by values that can be opened.
type Decodable interface {
	HXDecode(map[string]any) error
}

type envelope struct {
	Data     map[string]any `msgpack:"d"`
	IssuedAt int64          `msgpack:"i"`
}

// Encode seals v. If sensitive is true the token is encrypted, otherwise
// signed.
func (e *Encoder) Encode(v any, sensitive bool) (string, error) {
	enc, ok := v.(Encodable)
	if !ok {
		return "", ErrNotEncodable
	}

	packed, err := msgpack.Marshal(envelope{Data: enc.HXEncode(), IssuedAt: e.now().Unix()})
	if err != nil {
		return "", err
	}

	if sensitive {
		return e.encrypt(packed)
	}
	return e.sign(packed), nil
}

// Decode opens encoded into v. A maxAge of zero disables the age check.
func (e *Encoder) Decode(encoded string, sensitive bool, maxAge time.Duration, v any) error {
	dec, ok := v.(Decodable)
	if !ok {
		return ErrNotDecodable
	}

	var packed []byte
	var err error
	if sensitive {
		packed, err = e.decrypt(encoded)
	} else {
		packed, err = e.verify(encoded)
	}
	if err != nil {
		return err
	}

	var env envelope
	if err := msgpack.Unmarshal(packed, &env); err != nil {
		return ErrInvalidFormat
	}
	if maxAge > 0 {
		issued := time.Unix(env.IssuedAt, 0)
		if e.now().Sub(issued) > maxAge {
			return ErrExpired
		}
	}
	if env.Data == nil {
		return ErrInvalidFormat
	}
	return dec.HXDecode(env.Data)
}

// sign creates base64(data) + "." + base64(hmac[:16]).
func (e *Encoder) sign(data []byte) string {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
	return b64 + "." + sig
}

func (e *Encoder) verify(encoded string) ([]byte, error) {
	payload, sigPart, ok := strings.Cut(encoded, ".")
	if !ok {
		return nil, ErrInvalidFormat
	}

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	if !hmac.Equal(sig, mac.Sum(nil)[:16]) {
		return nil, ErrSignatureInvalid
	}

	return data, nil
}

func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := e.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (e *Encoder) decrypt(encoded string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	if len(ciphertext) < e.gcm.NonceSize() {
		return nil, ErrInvalidFormat
	}

	nonce := ciphertext[:e.gcm.NonceSize()]
	plain, err := e.gcm.Open(nil, nonce, ciphertext[e.gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}
