package client

import (
	"context"
	"fmt"

	"zmctl/pkg/models"
)

// Servers returns the server nodes keyed by id. A failed listing is taken as
// an expired session: the client logs in again and retries once.
func (c *ZoneMinderClient) Servers(ctx context.Context) (map[string]models.Server, error) {
	servers, err := c.fetchServers(ctx)
	if err == nil {
		return servers, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	c.log.Debug().Err(err).Msg("server listing failed, logging in again")
	c.Reauth()
	return c.fetchServers(ctx)
}

func (c *ZoneMinderClient) fetchServers(ctx context.Context) (map[string]models.Server, error) {
	resp, err := c.Fetch(ctx, "/api/servers.json", nil)
	if err != nil {
		return nil, err
	}

	servers := make(map[string]models.Server)
	if !resp.JSON {
		return servers, nil
	}

	var respData models.ServerListResponse
	if err := resp.Decode(&respData); err != nil {
		return nil, fmt.Errorf("failed to decode servers: %w", err)
	}
	for _, item := range respData.Servers {
		servers[item.Server.ID.String()] = item.Server
	}
	return servers, nil
}

// Version returns the server and API version.
func (c *ZoneMinderClient) Version(ctx context.Context) (*Response, error) {
	return c.Fetch(ctx, "/api/host/getVersion.json", nil)
}

// Status reports whether the capture daemons are running.
func (c *ZoneMinderClient) Status(ctx context.Context) (*Response, error) {
	return c.Fetch(ctx, "/api/host/daemonCheck.json", nil)
}

// Restart asks the server to restart its daemons.
func (c *ZoneMinderClient) Restart(ctx context.Context) (*Response, error) {
	return c.Fetch(ctx, "/api/states/change/restart.json", nil)
}
