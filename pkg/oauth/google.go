package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	cb "github.com/svazquez/biblioteca-service/pkg/circuit_breaker"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Config struct {
	ClientID     string `yaml:"clientID" envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"clientSecret" envconfig:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirectURL" envconfig:"GOOGLE_REDIRECT_URL"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleProvider drives the authorization-code flow against Google and
// fetches the profile of the authenticated user.
type GoogleProvider struct {
	oauthCfg *oauth2.Config
	client   *http.Client
	breaker  cb.CircuitBreaker
	log      *zap.Logger
}

func NewGoogleProvider(cfg Config, log *zap.Logger) *GoogleProvider {
	return &GoogleProvider{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: cb.New(20, 30*time.Second, 0.5, 3),
		log:     log.Named("oauth"),
	}
}

// AuthCodeURL builds the redirect to Google's consent screen. The state
// is verified on callback by the handler.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	token, err := p.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "code exchange")
	}
	return token, nil
}

func (p *GoogleProvider) UserInfo(ctx context.Context, token *oauth2.Token) (UserInfo, error) {
	var info UserInfo
	err := p.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, http.NoBody)
		if err != nil {
			return err
		}
		token.SetAuthHeader(req)

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("userinfo status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&info)
	})
	if err != nil {
		p.log.Warn("userinfo", zap.Error(err))
		return UserInfo{}, err
	}
	return info, nil
}
