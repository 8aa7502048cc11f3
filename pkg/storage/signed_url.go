package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid download token")
	ErrExpiredToken = errors.New("download token expired")
)

// DownloadToken is the claim carried by a signed download link.
type DownloadToken struct {
	ExportID  string
	Path      string
	ExpiresAt time.Time
}

// Signer issues and verifies HMAC-SHA256 download tokens of the form payload.signature,
// both parts base64url without padding.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a signer. A non-positive ttl falls back to 24h.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// TTL reports how long issued tokens stay valid.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Sign issues a token for exportID/path that expires ttl after now.
func (s *Signer) Sign(exportID, path string, now time.Time) (string, time.Time, error) {
	if exportID == "" || path == "" {
		return "", time.Time{}, errors.New("export id and path are required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("signing secret is empty")
	}
	expiresAt := now.Add(s.ttl).Truncate(time.Second)
	payload := strings.Join([]string{exportID, path, strconv.FormatInt(expiresAt.Unix(), 10)}, "\n")
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + s.mac(encoded), expiresAt, nil
}

// Verify checks the signature and, unless allowExpired, the expiry against now.
func (s *Signer) Verify(token string, now time.Time, allowExpired bool) (DownloadToken, error) {
	encoded, signature, ok := strings.Cut(token, ".")
	if !ok || !hmac.Equal([]byte(signature), []byte(s.mac(encoded))) {
		return DownloadToken{}, ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return DownloadToken{}, ErrInvalidToken
	}
	parts := strings.Split(string(raw), "\n")
	if len(parts) != 3 {
		return DownloadToken{}, ErrInvalidToken
	}
	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return DownloadToken{}, ErrInvalidToken
	}

	claim := DownloadToken{ExportID: parts[0], Path: parts[1], ExpiresAt: time.Unix(unix, 0)}
	if !allowExpired && now.After(claim.ExpiresAt) {
		return claim, ErrExpiredToken
	}
	return claim, nil
}

func (s *Signer) mac(encoded string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
