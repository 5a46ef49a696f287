package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Profile holds the details the auth provider reports for a user. It is
// the source for lazy provisioning of local user rows.
type Profile struct {
	ID        string
	Email     string
	Username  string
	FirstName string
	LastName  string
}

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrProfileNotFound = errors.New("auth provider profile not found")
)

const (
	clerkAPIBase    = "https://api.clerk.com/v1"
	jwksRefreshTTL  = time.Hour
	providerTimeout = 10 * time.Second
)

// ClerkClient verifies Clerk session tokens and fetches user profiles from
// the Clerk Backend API. Session tokens are RS256 JWTs signed with keys
// published at the instance's JWKS endpoint.
type ClerkClient struct {
	secretKey  string
	apiBase    string
	jwksURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewClerkClient creates a client for the given Clerk instance.
func NewClerkClient(secretKey, jwksURL string) *ClerkClient {
	return &ClerkClient{
		secretKey:  secretKey,
		apiBase:    clerkAPIBase,
		jwksURL:    jwksURL,
		httpClient: &http.Client{Timeout: providerTimeout},
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// NewClerkClientFromEnv creates a client from CLERK_SECRET_KEY and
// CLERK_JWKS_URL.
func NewClerkClientFromEnv() (*ClerkClient, error) {
	secretKey := os.Getenv("CLERK_SECRET_KEY")
	if secretKey == "" {
		return nil, errors.New("CLERK_SECRET_KEY environment variable is required")
	}
	jwksURL := os.Getenv("CLERK_JWKS_URL")
	if jwksURL == "" {
		return nil, errors.New("CLERK_JWKS_URL environment variable is required")
	}
	return NewClerkClient(secretKey, jwksURL), nil
}

// VerifyToken validates a session JWT and returns the external subject id.
func (c *ClerkClient) VerifyToken(ctx context.Context, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token missing key id")
		}
		return c.signingKey(ctx, kid)
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}

	return sub, nil
}

// signingKey returns the public key for kid, refreshing the JWKS cache when
// the key is unknown or the cache is stale.
func (c *ClerkClient) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := time.Since(c.fetchedAt) < jwksRefreshTTL
	c.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := c.refreshKeys(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown signing key: %s", kid)
	}
	return key, nil
}

func (c *ClerkClient) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create JWKS request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned %d", resp.StatusCode)
	}

	var jwks struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	if len(keys) == 0 {
		return errors.New("JWKS contained no usable RSA keys")
	}

	c.mu.Lock()
	c.keys = keys
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return nil
}

func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}

// GetUser fetches the provider profile for an external subject id.
func (c *ClerkClient) GetUser(ctx context.Context, clerkUserID string) (*Profile, error) {
	url := fmt.Sprintf("%s/users/%s", c.apiBase, clerkUserID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("auth provider error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiUser struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		PrimaryEmailID string `json:"primary_email_address_id"`
		EmailAddresses []struct {
			ID           string `json:"id"`
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiUser); err != nil {
		return nil, fmt.Errorf("failed to decode user profile: %w", err)
	}

	profile := &Profile{
		ID:        apiUser.ID,
		Username:  apiUser.Username,
		FirstName: apiUser.FirstName,
		LastName:  apiUser.LastName,
	}

	for _, addr := range apiUser.EmailAddresses {
		if addr.ID == apiUser.PrimaryEmailID {
			profile.Email = addr.EmailAddress
			break
		}
	}
	if profile.Email == "" && len(apiUser.EmailAddresses) > 0 {
		profile.Email = apiUser.EmailAddresses[0].EmailAddress
	}

	return profile, nil
}
