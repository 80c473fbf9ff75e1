package client

import (
	"context"
	"fmt"
	"net/url"
)

// Alarm sends an alarm command ("on", "off" or "status") to a monitor.
func (c *ZoneMinderClient) Alarm(ctx context.Context, monitorID int, cmd string) (*Response, error) {
	path := fmt.Sprintf("/api/monitors/alarm/id:%d/command:%s.json", monitorID, url.PathEscape(cmd))
	return c.Fetch(ctx, path, nil)
}
