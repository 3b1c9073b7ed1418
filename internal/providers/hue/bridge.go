package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPBridge talks the classic REST light-state endpoint of a Hue-compatible
// bridge. Only the calls the provider needs are implemented.
type HTTPBridge struct {
	host     string
	username string
	client   *http.Client
}

func NewHTTPBridge(host, username string) *HTTPBridge {
	return &HTTPBridge{
		host:     host,
		username: username,
		client:   &http.Client{Timeout: 2 * time.Second},
	}
}

var _ Bridge = (*HTTPBridge)(nil)

func (b *HTTPBridge) SetLightColor(ctx context.Context, lightID string, x, y, brightness float64) error {
	state := map[string]any{
		"on":  brightness > 0,
		"xy":  []float64{x, y},
		"bri": int(brightness * 254),
	}
	body, err := json.Marshal(state)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://%s/api/%s/lights/%s/state", b.host, b.username, lightID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge returned %s", resp.Status)
	}
	return nil
}
