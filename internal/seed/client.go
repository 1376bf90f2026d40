package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/glossa/internal/domain/model"
)

// Request payloads mirroring the server's API schemas.
type (
	segmentPayload struct {
		ID     string `json:"id"`
		Length int    `json:"length"`
	}
	segmentsRequest struct {
		Segments []segmentPayload `json:"segments"`
	}
	spanRequest struct {
		Label string `json:"label"`
		Color string `json:"color"`
		Start int    `json:"start"`
		End   int    `json:"end"`
		Kind  string `json:"kind"`
	}
	batchRequest struct {
		Tracks        []model.Track         `json:"tracks"`
		FrameSamples  []model.FrameSample   `json:"frame_samples"`
		Words         []model.AlignmentUnit `json:"words"`
		FrameInterval int                   `json:"frame_interval"`
	}
	mediaRequest struct {
		TotalFrames int     `json:"total_frames"`
		FPS         float64 `json:"fps"`
	}
	trackingRequest struct {
		Box      model.Box `json:"box"`
		Frame    int       `json:"frame"`
		Time     float64   `json:"time"`
		Label    string    `json:"label,omitempty"`
		Color    string    `json:"color,omitempty"`
		Interval int       `json:"interval,omitempty"`
	}
	archiveRequest struct {
		Corpus    string `json:"corpus"`
		Type      string `json:"type"`
		Framework string `json:"framework"`
		Name      string `json:"name"`
		Coder     string `json:"coder"`
	}
)

// client wraps http.Client with the server's base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// drain closes a response after discarding its body so connections are
// reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func (c *client) putSegments(ctx context.Context, req segmentsRequest) error {
	resp, err := c.do(ctx, http.MethodPut, "/segments", req)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("put segments: status %d", resp.StatusCode)
	}
	return nil
}

// postSpan submits one span; a 409 counts as an expected rejection, not
// an error.
func (c *client) postSpan(ctx context.Context, req spanRequest) (bool, error) {
	resp, err := c.do(ctx, http.MethodPost, "/spans", req)
	if err != nil {
		return false, err
	}
	defer drain(resp)
	switch resp.StatusCode {
	case http.StatusCreated:
		return true, nil
	case http.StatusConflict:
		return false, nil
	default:
		return false, fmt.Errorf("post span: status %d", resp.StatusCode)
	}
}

func (c *client) postBatch(ctx context.Context, req batchRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/sources", req)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("post batch: status %d", resp.StatusCode)
	}
	return nil
}

func (c *client) openMedia(ctx context.Context, totalFrames int, fps float64) error {
	resp, err := c.do(ctx, http.MethodPost, "/media", mediaRequest{TotalFrames: totalFrames, FPS: fps})
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open media: status %d", resp.StatusCode)
	}
	return nil
}

func (c *client) trackingAction(ctx context.Context, action string, req trackingRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/tracking/"+action, req)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("tracking %s: status %d", action, resp.StatusCode)
	}
	return nil
}

func (c *client) countAnnotations(ctx context.Context) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, "/annotations", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("list annotations: status %d", resp.StatusCode)
	}
	var out struct {
		Annotations []model.Annotation `json:"annotations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode annotations: %w", err)
	}
	return len(out.Annotations), nil
}

func (c *client) saveArchive(ctx context.Context, req archiveRequest) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/archives", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("save archive: status %d", resp.StatusCode)
	}
	var out model.Archive
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode archive: %w", err)
	}
	return out.ID, nil
}
