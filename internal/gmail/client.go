package gmail

import (
	"context"
	"fmt"
	"net/http"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// unreadQuery selects the messages a digest run considers.
const unreadQuery = "is:unread in:inbox"

// unreadLabel is the label removed when a message is acknowledged.
const unreadLabel = "UNREAD"

// Client wraps the Gmail Users service.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client on top of an OAuth2-authenticated HTTP
// client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// ListUnread returns the IDs of unread inbox messages, oldest-first as the
// API returns them, up to maxResults. It paginates if necessary.
func (c *Client) ListUnread(ctx context.Context, maxResults int64) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := maxResults - int64(len(ids))
		if remaining <= 0 {
			break
		}

		// Gmail caps page sizes at 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(unreadQuery).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list unread messages: %w", err)
		}

		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}

		if res.NextPageToken == "" || int64(len(ids)) >= maxResults {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}

	return ids, nil
}

// FetchMessage retrieves one message in full and converts it to a Message.
// The error is for API failures only; an undecodable body is reported
// through the Message's FallbackReason instead.
func (c *Client) FetchMessage(ctx context.Context, id string) (*Message, error) {
	msg, err := c.svc.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return parseMessage(msg), nil
}

// MarkRead removes the UNREAD label from a single message.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	_, err := c.svc.Messages.Modify("me", id, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{unreadLabel},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message %s as read: %w", id, err)
	}
	return nil
}
