package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dinehub/internal/config"
	"dinehub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const defaultHTTPTimeout = 5 * time.Second

// Claims is the only supported bearer-token payload shape. The subject id
// may arrive either as the custom "id" claim or as the registered "sub".
type Claims struct {
	jwt.RegisteredClaims

	UserID   string `json:"id,omitempty"`
	Email    string `json:"email"`
	TenantID string `json:"tenantId,omitempty"`
}

// Verifier validates bearer tokens with either a shared HMAC secret or an
// RS256 key set fetched from a JWKS endpoint.
type Verifier struct {
	issuer   string
	audience string
	skew     time.Duration
	secret   []byte
	jwks     *jwksCache
}

type Option func(*Verifier)

func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) {
		if v.jwks != nil && client != nil {
			v.jwks.httpClient = client
		}
	}
}

func NewVerifierFromConfig(cfg config.Config, opts ...Option) (*Verifier, error) {
	v := &Verifier{
		issuer:   strings.TrimSpace(cfg.JWTIssuer),
		audience: strings.TrimSpace(cfg.JWTAudience),
		skew:     cfg.JWTClockSkew(),
	}
	switch cfg.AuthMode {
	case "hmac":
		if cfg.JWTHMACSecret == "" {
			return nil, errors.New("JWT_HMAC_SECRET is required for hmac auth mode")
		}
		v.secret = []byte(cfg.JWTHMACSecret)
	case "jwks":
		url := strings.TrimSpace(cfg.JWKSURL)
		if url == "" {
			return nil, errors.New("JWKS_URL is required for jwks auth mode")
		}
		v.jwks = newJWKSCache(url, &http.Client{Timeout: defaultHTTPTimeout})
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.AuthMode)
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *Verifier) Verify(ctx context.Context, bearerToken string) (domain.TokenClaims, error) {
	if v == nil {
		return domain.TokenClaims{}, domain.ErrUnauthenticated
	}
	tokenString := strings.TrimSpace(bearerToken)
	if tokenString == "" {
		return domain.TokenClaims{}, domain.ErrUnauthenticated
	}

	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.skew),
		jwt.WithValidMethods(v.validMethods()),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc(ctx), opts...)
	if err != nil || !parsed.Valid {
		return domain.TokenClaims{}, domain.ErrUnauthenticated
	}

	subjectID := claims.UserID
	if subjectID == "" {
		subjectID = claims.Subject
	}
	return domain.TokenClaims{
		SubjectID: subjectID,
		Email:     strings.TrimSpace(claims.Email),
		TenantID:  strings.TrimSpace(claims.TenantID),
	}, nil
}

func (v *Verifier) validMethods() []string {
	if v.secret != nil {
		return []string{jwt.SigningMethodHS256.Alg()}
	}
	return []string{jwt.SigningMethodRS256.Alg()}
}

func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if v.secret != nil {
			return v.secret, nil
		}
		kid, _ := t.Header["kid"].(string)
		return v.jwks.getKey(ctx, kid)
	}
}
