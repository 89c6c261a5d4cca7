package walletwidget

import (
	"errors"
	"time"

	"github.com/amarshat/walletwidget/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// Encodable is implemented by types that can be sealed into a token.
type Encodable = encoding.Encodable

// Decodable is implemented by types that can be opened from a token.
type Decodable = encoding.Decodable

// NewEncoder creates a token encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// EncodeConfig seals an InstanceConfig for a deferred widget URL.
func EncodeConfig(enc *Encoder, cfg InstanceConfig) (string, error) {
	token, err := enc.Encode(cfg, false)
	return token, wrapEncodingError(err)
}

// DecodeConfig opens a deferred widget token. Tokens older than maxAge are
// rejected with ErrTokenExpired; zero disables the check.
func DecodeConfig(enc *Encoder, token string, maxAge time.Duration) (InstanceConfig, error) {
	var cfg InstanceConfig
	if err := enc.Decode(token, false, maxAge, &cfg); err != nil {
		return InstanceConfig{}, wrapEncodingError(err)
	}
	return cfg, nil
}

// wrapEncodingError maps encoding package errors onto walletwidget sentinels.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, encoding.ErrInvalidFormat):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	case errors.Is(err, encoding.ErrExpired):
		return ErrTokenExpired
	}
	return err
}
