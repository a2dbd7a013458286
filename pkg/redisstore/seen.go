package redisstore

import (
	"context"
	"fmt"
)

func seenKey(messageID string) string {
	return fmt.Sprintf("site:result:seen:%s", messageID)
}

// MarkSeen records that a result message has been committed.
func (c *Client) MarkSeen(ctx context.Context, messageID string) error {
	return retry(ctx, 2, func() error {
		return c.rdb.Set(ctx, seenKey(messageID), 1, c.seenTTL).Err()
	})
}

func (c *Client) Seen(ctx context.Context, messageID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, seenKey(messageID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
