package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphsnap/graphsnap/internal/core/domain"
)

// UserInfo contains the user's basic profile information from Microsoft Graph.
type UserInfo struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// GetUserInfo fetches the user's profile information using an access token.
// Returns the user's email address which serves as the account identifier.
func (c *Client) GetUserInfo(ctx context.Context, token domain.AccessToken) (*UserInfo, error) {
	if token.IsZero() {
		return nil, domain.ErrNoToken
	}

	url := c.baseURL + "/me?$select=id,displayName,mail,userPrincipalName"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, url, token.Value)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status %d: %w",
			resp.StatusCode, WrapError(resp.StatusCode))
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &userInfo, nil
}

// GetUserEmail returns the user's email address.
// Falls back to userPrincipalName if mail is not set.
func (u *UserInfo) GetUserEmail() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}
