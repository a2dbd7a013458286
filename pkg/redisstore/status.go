package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SiteStatus is the latest recorded outcome for a site.
type SiteStatus struct {
	ResultCode   string
	ResponseTime float64
	CheckedAt    time.Time
}

func statusKey(siteID int64) string {
	return fmt.Sprintf("site:status:%d", siteID)
}

func (c *Client) StoreStatus(ctx context.Context, siteID int64, st SiteStatus) error {
	key := statusKey(siteID)

	return retry(ctx, 2, func() error {
		_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, key, map[string]any{
				"result_code":   st.ResultCode,
				"response_time": st.ResponseTime,
				"checked_at":    st.CheckedAt.UnixMilli(),
			})
			if c.statusTTL > 0 {
				p.Expire(ctx, key, c.statusTTL)
			}
			return nil
		})
		return err
	})
}

// GetStatus returns nil, nil when no result has been recorded for the site.
func (c *Client) GetStatus(ctx context.Context, siteID int64) (*SiteStatus, error) {
	res, err := c.rdb.HGetAll(ctx, statusKey(siteID)).Result()
	if err == redis.Nil || (err == nil && len(res) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st := &SiteStatus{ResultCode: res["result_code"]}
	if st.ResponseTime, err = strconv.ParseFloat(res["response_time"], 64); err != nil {
		return nil, fmt.Errorf("parse response_time: %w", err)
	}
	ms, err := strconv.ParseInt(res["checked_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse checked_at: %w", err)
	}
	st.CheckedAt = time.UnixMilli(ms).UTC()
	return st, nil
}

func (c *Client) DelStatus(ctx context.Context, siteID int64) error {
	return c.rdb.Del(ctx, statusKey(siteID)).Err()
}
