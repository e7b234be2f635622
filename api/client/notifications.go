package client

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

// Notifications lists absence notifications, filtered by status unless it is empty.
func (c *Client) Notifications(ctx context.Context, status domain.NotificationStatus) ([]domain.Notification, error) {
	endpoint := query("/notifications", func(args *fasthttp.Args) {
		if status != "" {
			args.Set("status", string(status))
		}
	})
	var notifications []domain.Notification
	if err := c.gw.Do(ctx, endpoint, Options{}, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) MarkNotificationSent(ctx context.Context, id int64) (*domain.Message, error) {
	var msg domain.Message
	if err := c.gw.Do(ctx, idPath("/notifications", id, "/send"), Options{Method: "POST"}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
