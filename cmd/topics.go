package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"typetalk/pkg/typetalk"

	"github.com/spf13/cobra"
)

// Topic and message flags
var (
	messagesCount     int
	messagesFrom      int64
	messagesDirection string

	postReplyTo  int64
	postFileKeys []string
	postTalkIDs  []int64
	postAttach   []string
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics you belong to",
	Args:  cobra.NoArgs,
	RunE: runResource(func(ctx context.Context, client *typetalk.Client) (json.RawMessage, error) {
		return client.GetMyTopics(ctx)
	}),
}

// messagesCmd represents the messages command
var messagesCmd = &cobra.Command{
	Use:   "messages <topicId>",
	Short: "List the posts of a topic",
	Long: `List the posts of a topic.

Examples:
  typetalk messages 208                          # Latest posts
  typetalk messages 208 --count 50               # Latest 50 posts
  typetalk messages 208 --from 1200 --direction forward`,
	Args: cobra.ExactArgs(1),
	RunE: runMessages,
}

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <topicId> <message>",
	Short: "Post a message to a topic",
	Long: `Post a message to a topic.

Files given with --attach are uploaded first and attached to the message.
At most 5 attachments and 5 talks can be given.

Examples:
  typetalk post 208 "Hello"
  typetalk post 208 "See attached" --attach report.pdf
  typetalk post 208 "Agreed" --reply-to 1200 --talk-id 14`,
	Args: cobra.ExactArgs(2),
	RunE: runPost,
}

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <topicId> [postId]",
	Short: "Mark the posts of a topic as read",
	Long: `Mark the posts of a topic as read, up to postId when given.

The request goes to the bookmark endpoint set by bookmarkEndpoint in
config.yaml ("bookmark/save" or "bookmarks").`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(readCmd)

	messagesCmd.Flags().IntVar(&messagesCount, "count", 0, "Number of posts to fetch (default chosen by the server)")
	messagesCmd.Flags().Int64Var(&messagesFrom, "from", 0, "Post id to page from")
	messagesCmd.Flags().StringVar(&messagesDirection, "direction", "", "Paging direction: backward or forward")

	postCmd.Flags().Int64Var(&postReplyTo, "reply-to", 0, "Post id to reply to")
	postCmd.Flags().StringSliceVar(&postFileKeys, "file-key", nil, "File key of an already uploaded attachment (repeatable)")
	postCmd.Flags().Int64SliceVar(&postTalkIDs, "talk-id", nil, "Talk to add the message to (repeatable)")
	postCmd.Flags().StringSliceVar(&postAttach, "attach", nil, "Local file to upload and attach (repeatable)")
}

func runMessages(cmd *cobra.Command, args []string) error {
	topicID, err := parseID("topic id", args[0])
	if err != nil {
		return err
	}
	switch messagesDirection {
	case "", typetalk.DirectionBackward, typetalk.DirectionForward:
	default:
		return fmt.Errorf("invalid direction %q: must be %s or %s", messagesDirection, typetalk.DirectionBackward, typetalk.DirectionForward)
	}

	client, err := authenticatedClient(cmd)
	if err != nil {
		return err
	}

	data, err := client.GetTopicMessages(cmd.Context(), topicID, &typetalk.MessagesOptions{
		Count:     messagesCount,
		From:      messagesFrom,
		Direction: messagesDirection,
	})
	if err != nil {
		return err
	}
	return render(cmd, data)
}

func runPost(cmd *cobra.Command, args []string) error {
	topicID, err := parseID("topic id", args[0])
	if err != nil {
		return err
	}
	if n := len(postFileKeys) + len(postAttach); n > typetalk.MaxAttachments {
		return fmt.Errorf("too many attachments: %d given, at most %d allowed", n, typetalk.MaxAttachments)
	}

	client, err := authenticatedClient(cmd)
	if err != nil {
		return err
	}

	fileKeys := append([]string(nil), postFileKeys...)
	for _, path := range postAttach {
		key, err := uploadAttachment(cmd, client, topicID, path)
		if err != nil {
			return err
		}
		fileKeys = append(fileKeys, key)
	}

	data, err := client.PostMessage(cmd.Context(), topicID, args[1], &typetalk.PostMessageOptions{
		ReplyTo:  postReplyTo,
		FileKeys: fileKeys,
		TalkIDs:  postTalkIDs,
	})
	if err != nil {
		return err
	}
	return render(cmd, data)
}

// uploadAttachment uploads a local file and returns its file key.
func uploadAttachment(cmd *cobra.Command, client *typetalk.Client, topicID int64, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	data, err := client.UploadAttachmentFile(cmd.Context(), topicID, filepath.Base(path), f)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	var uploaded struct {
		FileKey string `json:"fileKey"`
	}
	if err := json.Unmarshal(data, &uploaded); err != nil || uploaded.FileKey == "" {
		return "", fmt.Errorf("upload of %s returned no file key", path)
	}
	authPrintf(cmd, "Uploaded %s\n", filepath.Base(path))
	return uploaded.FileKey, nil
}

func runRead(cmd *cobra.Command, args []string) error {
	topicID, err := parseID("topic id", args[0])
	if err != nil {
		return err
	}
	var postID int64
	if len(args) == 2 {
		if postID, err = parseID("post id", args[1]); err != nil {
			return err
		}
	}

	client, err := authenticatedClient(cmd)
	if err != nil {
		return err
	}

	data, err := client.ReadMessagesInTopic(cmd.Context(), topicID, postID)
	if err != nil {
		return err
	}
	return render(cmd, data)
}
