package typetalk

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// AcceptTeamInvitation accepts an invitation to join a team.
func (c *Client) AcceptTeamInvitation(ctx context.Context, teamID, inviteID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, teamInvitePath(teamID, inviteID)+"/accept", nil)
}

// DeclineTeamInvitation declines an invitation to join a team.
func (c *Client) DeclineTeamInvitation(ctx context.Context, teamID, inviteID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, teamInvitePath(teamID, inviteID)+"/decline", nil)
}

// AcceptTopicInvitation accepts an invitation to join a topic.
func (c *Client) AcceptTopicInvitation(ctx context.Context, topicID, inviteID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, topicInvitePath(topicID, inviteID)+"/accept", nil)
}

// DeclineTopicInvitation declines an invitation to join a topic.
func (c *Client) DeclineTopicInvitation(ctx context.Context, topicID, inviteID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, topicInvitePath(topicID, inviteID)+"/decline", nil)
}

func teamInvitePath(teamID, inviteID int64) string {
	return "teams/" + strconv.FormatInt(teamID, 10) + "/members/invite/" + strconv.FormatInt(inviteID, 10)
}

func topicInvitePath(topicID, inviteID int64) string {
	return topicPath(topicID) + "/members/invite/" + strconv.FormatInt(inviteID, 10)
}
