package heartbeat

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

const discardLimit int64 = 128 * 1024

type URLHeartbeat struct {
	url    string
	client *http.Client
}

func NewURLHeartbeat(url string) *URLHeartbeat {
	return &URLHeartbeat{
		url:    url,
		client: cleanhttp.DefaultPooledClient(),
	}
}

func (b *URLHeartbeat) Beat(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer cleanupBody(resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("heartbeat endpoint answered HTTP %d", resp.StatusCode)
	}

	return nil
}

// Does cleanup of HTTP response in order to make it reusable by keep-alive
// logic of HTTP client
func cleanupBody(body io.ReadCloser) {
	io.Copy(ioutil.Discard, &io.LimitedReader{
		R: body,
		N: discardLimit,
	})
	body.Close()
}
