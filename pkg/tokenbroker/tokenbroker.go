package tokenbroker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrConsentRequired is returned when the tenant has not granted consent for
// the requested scopes yet, or the admin requires MFA. The client reacts with
// its consent popup, so this case must stay distinguishable from generic
// exchange failures.
var ErrConsentRequired = errors.New("consent or MFA required")

const defaultLoginBaseURL = "https://login.microsoftonline.com"

// Graph scopes requested during the on-behalf-of exchange.
var graphScopes = []string{
	"ChatMessage.Send",
	"OnlineMeetings.Read",
	"Sites.ReadWrite.All",
	"TeamsTab.Read.All",
	"User.Read.All",
}

// Broker exchanges a Teams SSO token for a Graph access token using the OAuth
// on-behalf-of flow. It is stateless and never retries; retrying via the
// consent flow is the caller's responsibility.
type Broker struct {
	ClientID     string
	ClientSecret string

	// LoginBaseURL overrides the AAD endpoint, used in tests.
	LoginBaseURL string

	httpClient *http.Client
}

func New(clientID string, clientSecret string, timeout time.Duration) *Broker {
	return &Broker{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		LoginBaseURL: defaultLoginBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Exchange performs the on-behalf-of token request for the tenant encoded in
// the SSO token. The returned map is the raw token payload of the identity
// provider, passed through to the client unchanged.
func (b *Broker) Exchange(ctx context.Context, ssoToken string) (map[string]interface{}, error) {
	if ssoToken == "" {
		return nil, errors.New("empty ssoToken")
	}

	tenantID, err := tenantIDFromToken(ssoToken)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("client_id", b.ClientID)
	form.Set("client_secret", b.ClientSecret)
	form.Set("assertion", ssoToken)
	form.Set("scope", graphScope())
	form.Set("requested_token_use", "on_behalf_of")

	tokenEndpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", b.LoginBaseURL, tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint not reachable: %w", err)
	}
	defer resp.Body.Close()

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("unexpected token endpoint response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errCode, _ := data["error"].(string)
		if errCode == "invalid_grant" || errCode == "interaction_required" {
			return nil, ErrConsentRequired
		}
		return nil, fmt.Errorf("could not exchange access token: %s", errCode)
	}

	return data, nil
}

// tenantIDFromToken reads the tid claim without verifying the signature. The
// SSO token was already validated by the Teams host, this endpoint only
// forwards it as the on-behalf-of assertion.
func tenantIDFromToken(ssoToken string) (string, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(ssoToken, claims); err != nil {
		return "", fmt.Errorf("could not decode ssoToken: %w", err)
	}

	tid, _ := claims["tid"].(string)
	if tid == "" {
		return "", errors.New("ssoToken has no tenant id")
	}
	return tid, nil
}

func graphScope() string {
	scopes := make([]string, len(graphScopes))
	for i, scope := range graphScopes {
		scopes[i] = "https://graph.microsoft.com/" + scope
	}
	return strings.Join(scopes, " ")
}
