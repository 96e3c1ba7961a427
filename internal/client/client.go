// Package client talks to the Buildrs HTTP API.
package client

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/wallet"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// APIError is a non-200 business code from the server.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	return &Client{http: httpClient}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func call[T any](ctx context.Context, c *Client, method, path string, query map[string]string, body any) (T, error) {
	var out envelope[T]
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return out.Data, err
	}
	if resp.StatusCode() != http.StatusOK {
		return out.Data, fmt.Errorf("unexpected http status %d", resp.StatusCode())
	}
	if out.Code != http.StatusOK {
		return out.Data, &APIError{Code: out.Code, Message: out.Message}
	}
	return out.Data, nil
}

// Authenticate runs the challenge, sign and login round trip and keeps the issued token.
func (c *Client) Authenticate(ctx context.Context, address string, signer wallet.Signer) (*model.SessionUser, *model.Profile, error) {
	challenge, err := call[dto.ChallengeDTO](ctx, c, http.MethodGet, "/api/auth/challenge", map[string]string{"address": address}, nil)
	if err != nil {
		return nil, nil, err
	}
	signature, err := signer.SignMessage(ctx, challenge.Message)
	if err != nil {
		return nil, nil, err
	}
	result, err := call[dto.LoginResultDTO](ctx, c, http.MethodPost, "/api/auth/login", nil, dto.LoginDTO{
		Address:   address,
		Signature: signature,
	})
	if err != nil {
		return nil, nil, err
	}
	c.SetToken(result.Token)

	profile, err := toProfile(result.Profile)
	if err != nil {
		return nil, nil, err
	}
	return &model.SessionUser{Address: wallet.NormalizeAddress(address), Signature: signature}, profile, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := call[any](ctx, c, http.MethodPost, "/api/auth/logout", nil, nil)
	if err == nil {
		c.SetToken("")
	}
	return err
}

func (c *Client) Me(ctx context.Context) (*dto.ProfileDTO, error) {
	return call[*dto.ProfileDTO](ctx, c, http.MethodGet, "/api/auth/me", nil, nil)
}

func (c *Client) Vote(ctx context.Context, buildID string, voteType model.VoteType) (*model.VoteState, error) {
	return call[*model.VoteState](ctx, c, http.MethodPost, "/api/builds/"+buildID+"/vote", nil, dto.VoteDTO{VoteType: string(voteType)})
}

func (c *Client) Leaderboard(ctx context.Context, period model.Period) ([]*model.LeaderboardEntry, error) {
	return call[[]*model.LeaderboardEntry](ctx, c, http.MethodGet, "/api/leaderboard", map[string]string{"period": string(period)}, nil)
}

func (c *Client) Stats(ctx context.Context) (*model.PlatformStats, error) {
	return call[*model.PlatformStats](ctx, c, http.MethodGet, "/api/leaderboard/stats", nil, nil)
}

func toProfile(in *dto.ProfileDTO) (*model.Profile, error) {
	if in == nil {
		return nil, nil
	}
	profile := &model.Profile{}
	if err := copier.Copy(profile, in); err != nil {
		return nil, err
	}
	profile.ID = in.WalletAddress
	return profile, nil
}
