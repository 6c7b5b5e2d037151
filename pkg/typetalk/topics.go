package typetalk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"typetalk/pkg/form"
)

// MaxAttachments is the number of file keys and talk ids a message may carry.
const MaxAttachments = 5

// Direction values for MessagesOptions.
const (
	DirectionBackward = "backward"
	DirectionForward  = "forward"
)

// MessagesOptions pages through the posts of a topic or talk. Zero fields are
// omitted from the request.
type MessagesOptions struct {
	Count     int
	From      int64
	Direction string
}

func (o *MessagesOptions) params() form.Params {
	var p form.Params
	if o == nil {
		return p
	}
	if o.Count > 0 {
		p.AddInt("count", int64(o.Count))
	}
	if o.From > 0 {
		p.AddInt("from", o.From)
	}
	if o.Direction != "" {
		p.Add("direction", o.Direction)
	}
	return p
}

// PostMessageOptions carries the optional fields of PostMessage.
type PostMessageOptions struct {
	ReplyTo  int64
	FileKeys []string
	TalkIDs  []int64
}

// GetMyTopics lists the topics the user belongs to.
func (c *Client) GetMyTopics(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "topics", nil)
}

// GetTopicMessages lists posts in a topic.
func (c *Client) GetTopicMessages(ctx context.Context, topicID int64, opts *MessagesOptions) (json.RawMessage, error) {
	return c.get(ctx, topicPath(topicID), opts.params())
}

// PostMessage posts message to a topic.
func (c *Client) PostMessage(ctx context.Context, topicID int64, message string, opts *PostMessageOptions) (json.RawMessage, error) {
	var p form.Params
	p.Add("message", message)
	if opts != nil {
		if len(opts.FileKeys) > MaxAttachments {
			return nil, fmt.Errorf("%w: at most %d file keys, got %d", ErrInvalidArgument, MaxAttachments, len(opts.FileKeys))
		}
		if len(opts.TalkIDs) > MaxAttachments {
			return nil, fmt.Errorf("%w: at most %d talk ids, got %d", ErrInvalidArgument, MaxAttachments, len(opts.TalkIDs))
		}
		if opts.ReplyTo > 0 {
			p.AddInt("replyTo", opts.ReplyTo)
		}
		p.AddIndexed("fileKeys", opts.FileKeys)
		p.AddIndexed("talkIds", formatIDs(opts.TalkIDs))
	}
	return c.send(ctx, http.MethodPost, topicPath(topicID), p)
}

// UploadAttachmentFile uploads a file to a topic as multipart/form-data. The
// returned JSON holds the fileKey to pass to PostMessage.
func (c *Client) UploadAttachmentFile(ctx context.Context, topicID int64, filename string, content io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("reading attachment %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("creating multipart body: %w", err)
	}
	return c.Request(ctx, http.MethodPost, c.endpoint(topicPath(topicID)), &buf, w.FormDataContentType())
}

// GetTopicMembers lists the members of a topic with their online status.
func (c *Client) GetTopicMembers(ctx context.Context, topicID int64) (json.RawMessage, error) {
	return c.get(ctx, topicPath(topicID)+"/members/status", nil)
}

// GetMessage fetches a single post with its replies.
func (c *Client) GetMessage(ctx context.Context, topicID, postID int64) (json.RawMessage, error) {
	return c.get(ctx, postPath(topicID, postID), nil)
}

// RemoveMessage deletes a post.
func (c *Client) RemoveMessage(ctx context.Context, topicID, postID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodDelete, postPath(topicID, postID), nil)
}

// LikeMessage likes a post.
func (c *Client) LikeMessage(ctx context.Context, topicID, postID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, postPath(topicID, postID)+"/like", nil)
}

// UnlikeMessage removes a like from a post.
func (c *Client) UnlikeMessage(ctx context.Context, topicID, postID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodDelete, postPath(topicID, postID)+"/like", nil)
}

// FavoriteTopic adds a topic to the user's favorites.
func (c *Client) FavoriteTopic(ctx context.Context, topicID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, topicPath(topicID)+"/favorite", nil)
}

// UnfavoriteTopic removes a topic from the user's favorites.
func (c *Client) UnfavoriteTopic(ctx context.Context, topicID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodDelete, topicPath(topicID)+"/favorite", nil)
}

// CreateTopic creates a topic, inside a team when teamID is non-zero.
func (c *Client) CreateTopic(ctx context.Context, name string, teamID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, "topics", topicParams(name, teamID))
}

// UpdateTopic renames a topic or moves it to another team.
func (c *Client) UpdateTopic(ctx context.Context, topicID int64, name string, teamID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPut, topicPath(topicID), topicParams(name, teamID))
}

// DeleteTopic deletes a topic.
func (c *Client) DeleteTopic(ctx context.Context, topicID int64) (json.RawMessage, error) {
	return c.send(ctx, http.MethodDelete, topicPath(topicID), nil)
}

// GetTopicDetails fetches a topic with its members and pending invitations.
func (c *Client) GetTopicDetails(ctx context.Context, topicID int64) (json.RawMessage, error) {
	return c.get(ctx, topicPath(topicID)+"/details", nil)
}

// InviteTopicMember invites accounts, by name or email address, to a topic.
func (c *Client) InviteTopicMember(ctx context.Context, topicID int64, members []string, message string) (json.RawMessage, error) {
	var p form.Params
	p.AddIndexed("inviteMembers", members)
	if message != "" {
		p.Add("inviteMessage", message)
	}
	return c.send(ctx, http.MethodPost, topicPath(topicID)+"/members/invite", p)
}

// RemoveTopicMember withdraws pending invitations and removes members.
func (c *Client) RemoveTopicMember(ctx context.Context, topicID int64, inviteIDs, memberIDs []int64) (json.RawMessage, error) {
	var p form.Params
	p.AddIndexed("removeInviteIds", formatIDs(inviteIDs))
	p.AddIndexed("removeMemberIds", formatIDs(memberIDs))
	return c.send(ctx, http.MethodPost, topicPath(topicID)+"/members/remove", p)
}

// GetTalks lists the talks of a topic. opts may be nil.
func (c *Client) GetTalks(ctx context.Context, topicID int64, opts *MessagesOptions) (json.RawMessage, error) {
	return c.get(ctx, topicPath(topicID)+"/talks", opts.params())
}

// GetTalk lists the posts of a talk.
func (c *Client) GetTalk(ctx context.Context, topicID, talkID int64, opts *MessagesOptions) (json.RawMessage, error) {
	return c.get(ctx, topicPath(topicID)+"/talks/"+strconv.FormatInt(talkID, 10)+"/posts", opts.params())
}

func topicParams(name string, teamID int64) form.Params {
	var p form.Params
	p.Add("name", name)
	if teamID > 0 {
		p.AddInt("teamId", teamID)
	}
	return p
}

func topicPath(topicID int64) string {
	return "topics/" + strconv.FormatInt(topicID, 10)
}

func postPath(topicID, postID int64) string {
	return topicPath(topicID) + "/posts/" + strconv.FormatInt(postID, 10)
}

func formatIDs(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}
