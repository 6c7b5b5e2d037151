package typetalk

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"typetalk/pkg/form"
)

// MentionsOptions filters GetMentionList.
type MentionsOptions struct {
	// From is the mention id to page from.
	From int64
	// Unread limits the list to unread mentions.
	Unread bool
}

// GetNotificationList lists recent notifications.
func (c *Client) GetNotificationList(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "notifications", nil)
}

// GetNotificationCount returns unread counts for mentions, invitations and
// topic posts.
func (c *Client) GetNotificationCount(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "notifications/status", nil)
}

// ReadNotification marks notifications as read.
func (c *Client) ReadNotification(ctx context.Context) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPut, "notifications/open", nil)
}

// ReadMessagesInTopic marks the posts of a topic as read, up to postID when it
// is non-zero. The request follows the configured BookmarkEndpoint.
func (c *Client) ReadMessagesInTopic(ctx context.Context, topicID, postID int64) (json.RawMessage, error) {
	var p form.Params
	p.AddInt("topicId", topicID)
	if postID > 0 {
		p.AddInt("postId", postID)
	}

	method := http.MethodPost
	if c.bookmark == BookmarkPut {
		method = http.MethodPut
	}
	return c.send(ctx, method, string(c.bookmark), p)
}

// GetMentionList lists mentions of the user.
func (c *Client) GetMentionList(ctx context.Context, opts *MentionsOptions) (json.RawMessage, error) {
	var p form.Params
	if opts != nil {
		if opts.From > 0 {
			p.AddInt("from", opts.From)
		}
		if opts.Unread {
			p.AddBool("unread", true)
		}
	}
	return c.get(ctx, "mentions", p)
}

// ReadMention marks a mention as read.
func (c *Client) ReadMention(ctx context.Context, mentionID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPut, "mentions/"+strconv.FormatInt(mentionID, 10), nil)
}
