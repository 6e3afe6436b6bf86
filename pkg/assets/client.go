// Package assets fetches the published track asset index and the
// per-track SVG layers from the asset host.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/iracelog-trackmap-go/log"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
)

const defaultTimeout = 15 * time.Second

var (
	ErrInvalidIndex = errors.New("invalid asset index")
	ErrUnknownLayer = errors.New("layer not listed in asset")
)

// FetchError reports a failed layer or index download. Callers decide
// whether the affected layer was required.
type FetchError struct {
	Layer      string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (%s): unexpected status %d",
			e.Layer, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s (%s): %v", e.Layer, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type (
	Option func(*Client)
	Client struct {
		httpClient *http.Client
		indexURL   string
		logger     *log.Logger
	}
)

func NewClient(opts ...Option) *Client {
	ret := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithIndexURL(url string) Option {
	return func(c *Client) { c.indexURL = url }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// FetchIndex downloads the asset index and resolves it into a flat
// asset list. The upstream publishes either a plain array, an
// id-keyed object or a link envelope pointing at the real document;
// the shape is resolved here once and never re-inferred downstream.
func (c *Client) FetchIndex(ctx context.Context) ([]model.TrackAsset, error) {
	return c.fetchIndex(ctx, c.indexURL, true)
}

// FetchLayer downloads one SVG layer of the given asset.
func (c *Client) FetchLayer(
	ctx context.Context, asset *model.TrackAsset, layer string,
) ([]byte, error) {
	file, ok := asset.Layers[layer]
	if !ok {
		return nil, &FetchError{Layer: layer, Err: ErrUnknownLayer}
	}
	url := asset.BaseURL + file
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, &FetchError{Layer: layer, URL: url, Err: err}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &FetchError{Layer: layer, URL: url, StatusCode: status}
	}
	return body, nil
}

func (c *Client) fetchIndex(
	ctx context.Context, url string, followLink bool,
) ([]model.TrackAsset, error) {
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, &FetchError{Layer: "index", URL: url, Err: err}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &FetchError{Layer: "index", URL: url, StatusCode: status}
	}
	assets, link, err := c.decodeIndex(string(body))
	if err != nil {
		return nil, err
	}
	if link != "" {
		if !followLink {
			return nil, fmt.Errorf("%w: nested link envelope", ErrInvalidIndex)
		}
		c.logger.Debug("following index link", log.String("link", link))
		return c.fetchIndex(ctx, link, false)
	}
	return assets, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// decodeIndex returns the resolved assets or, for a link envelope,
// the link to follow.
func (c *Client) decodeIndex(jsonData string) ([]model.TrackAsset, string, error) {
	obj, err := oj.ParseString(jsonData)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}

	linkPath, err := jp.ParseString("$.link")
	if err != nil {
		return nil, "", err
	}
	if res := linkPath.Get(obj); len(res) > 0 {
		if link, ok := res[0].(string); ok && link != "" {
			return nil, link, nil
		}
	}

	switch v := obj.(type) {
	case []any:
		assets, err := c.decodeEntries(v)
		return assets, "", err
	case map[string]any:
		assets, err := c.decodeKeyed(v)
		return assets, "", err
	default:
		return nil, "", fmt.Errorf("%w: unsupported document shape", ErrInvalidIndex)
	}
}

func (c *Client) decodeEntries(entries []any) ([]model.TrackAsset, error) {
	assets := make([]model.TrackAsset, 0, len(entries))
	for _, entry := range entries {
		asset := model.TrackAsset{}
		if err := oj.Unmarshal([]byte(oj.JSON(entry)), &asset); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// decodeKeyed handles the id-keyed object shape. The key carries the
// track id when the entry itself does not.
func (c *Client) decodeKeyed(entries map[string]any) ([]model.TrackAsset, error) {
	assets := make([]model.TrackAsset, 0, len(entries))
	for key, entry := range entries {
		asset := model.TrackAsset{}
		if err := oj.Unmarshal([]byte(oj.JSON(entry)), &asset); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
		}
		if asset.TrackID == 0 {
			id, err := strconv.Atoi(key)
			if err != nil {
				c.logger.Warn("skipping index entry without track id",
					log.String("key", key))
				continue
			}
			asset.TrackID = id
		}
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].TrackID < assets[j].TrackID
	})
	return assets, nil
}
