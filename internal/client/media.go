package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Snapshot downloads a single JPEG frame from the given monitor.
// Returns the binary byte slice of the image.
func (c *ZoneMinderClient) Snapshot(ctx context.Context, monitorID int) ([]byte, error) {
	cameras, err := c.Cameras(ctx)
	if err != nil {
		return nil, err
	}

	for _, cam := range cameras {
		if cam.ID != monitorID {
			continue
		}

		// mode=single makes the streaming server send one frame and close.
		frameURL := strings.Replace(cam.ImageURL, "mode=jpeg", "mode=single", 1)
		resp, err := c.HTTP.R().SetContext(ctx).Get(frameURL)
		if err != nil {
			return nil, &TransportError{Method: "GET", Path: streamPath, Err: err}
		}
		if resp.IsError() {
			return nil, &APIError{StatusCode: resp.StatusCode(), Payload: resp.Body()}
		}
		if len(resp.Body()) == 0 {
			return nil, errors.New("response body is empty")
		}

		c.log.Debug().Str("content_type", resp.Header().Get("Content-Type")).Int("bytes", len(resp.Body())).Msg("snapshot received")
		return resp.Body(), nil
	}

	return nil, fmt.Errorf("monitor %d is not an enabled camera", monitorID)
}
