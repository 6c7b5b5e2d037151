package typetalk

import (
	"context"
	"encoding/json"
	"fmt"

	"typetalk/pkg/form"
)

// GetMyProfile returns the profile of the token's account.
func (c *Client) GetMyProfile(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "profile", nil)
}

// GetTeams lists the teams the user belongs to.
func (c *Client) GetTeams(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "teams", nil)
}

// GetFriends lists accounts the user shares a team or topic with.
func (c *Client) GetFriends(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "search/friends", nil)
}

// SearchAccounts finds an account by name or email address.
func (c *Client) SearchAccounts(ctx context.Context, nameOrEmailAddress string) (json.RawMessage, error) {
	if nameOrEmailAddress == "" {
		return nil, fmt.Errorf("%w: name or email address is required", ErrInvalidArgument)
	}
	var p form.Params
	p.Add("nameOrEmailAddress", nameOrEmailAddress)
	return c.get(ctx, "search/accounts", p)
}
