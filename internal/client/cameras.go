package client

import (
	"context"
	"fmt"
	"sort"

	"zmctl/internal/auth"
	"zmctl/pkg/models"
)

const streamPath = "/zm/cgi-bin/nph-zms"

// Monitors returns every enabled monitor record as the server sent it, in
// listing order.
func (c *ZoneMinderClient) Monitors(ctx context.Context) ([]models.Monitor, error) {
	_, monitors, err := c.enabledMonitors(ctx)
	return monitors, err
}

// Cameras returns the enabled monitors ordered by sequence, each with a
// ready-to-use MJPEG stream URL.
//
// One auth key, fetched for the first camera, is appended to every URL. The
// server issues it per login session rather than per monitor.
func (c *ZoneMinderClient) Cameras(ctx context.Context) ([]models.Camera, error) {
	servers, monitors, err := c.enabledMonitors(ctx)
	if err != nil {
		return nil, err
	}

	cameras := make([]models.Camera, 0, len(monitors))
	for _, m := range monitors {
		cameras = append(cameras, models.Camera{
			ID:       m.ID.Int(),
			Name:     m.Name,
			Sequence: m.Sequence.Int(),
			ImageURL: streamURL(c.imageHost(servers, m), m.ID.String()),
		})
	}
	sort.SliceStable(cameras, func(i, j int) bool {
		return cameras[i].Sequence < cameras[j].Sequence
	})

	if len(cameras) == 0 {
		return cameras, nil
	}

	key, err := c.AuthKey(ctx, cameras[0].ID)
	if err != nil {
		return nil, err
	}
	if key == "" {
		c.log.Warn().Int("monitor", cameras[0].ID).Msg("watch page carried no auth key, stream URLs may be rejected")
	}

	suffix := fmt.Sprintf("&auth=%s&connkey=%s", key, c.ConnectionKey())
	for i := range cameras {
		cameras[i].ImageURL += suffix
	}
	return cameras, nil
}

// AuthKey scrapes the stream auth key from the watch page of a monitor.
// An empty key with a nil error means the page did not contain one.
func (c *ZoneMinderClient) AuthKey(ctx context.Context, monitorID int) (string, error) {
	resp, err := c.Fetch(ctx, fmt.Sprintf("/index.php?view=watch&nid=%d", monitorID), nil)
	if err != nil {
		return "", err
	}
	return auth.ExtractAuthKey(resp.String()), nil
}

// ConnectionKey returns the key this client uses to identify its viewers.
func (c *ZoneMinderClient) ConnectionKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connKey == "" {
		c.connKey = auth.NewConnectionKey()
	}
	return c.connKey
}

func (c *ZoneMinderClient) SetConnectionKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connKey = key
}

func (c *ZoneMinderClient) enabledMonitors(ctx context.Context) (map[string]models.Server, []models.Monitor, error) {
	servers, err := c.Servers(ctx)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.Fetch(ctx, "/api/monitors.json", nil)
	if err != nil {
		return nil, nil, err
	}

	var monitors []models.Monitor
	if !resp.JSON {
		return servers, monitors, nil
	}

	var respData models.MonitorListResponse
	if err := resp.Decode(&respData); err != nil {
		return nil, nil, fmt.Errorf("failed to decode monitors: %w", err)
	}
	for _, item := range respData.Monitors {
		if item.Monitor == nil || !item.Monitor.IsEnabled() {
			continue
		}
		monitors = append(monitors, *item.Monitor)
	}
	return servers, monitors, nil
}

func (c *ZoneMinderClient) imageHost(servers map[string]models.Server, m models.Monitor) string {
	if srv, ok := servers[m.ServerID.String()]; ok && srv.Hostname != "" {
		return srv.Hostname
	}
	return c.hostAuthority()
}

func streamURL(host, monitorID string) string {
	return fmt.Sprintf("http://%s%s?mode=jpeg&scale=100&maxfps=5&monitor=%s", host, streamPath, monitorID)
}
