package docparse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shhdalk/tender-ai/internal/utils"
)

const (
	defaultBaseURL      = "https://api.cloud.llamaindex.ai/api/parsing"
	defaultUserAgent    = "tender-ai"
	defaultPollInterval = 2 * time.Second
	defaultMaxPolls     = 150

	jobStatusSuccess = "SUCCESS"
	jobStatusError   = "ERROR"
)

// Client talks to the document parsing service that converts proposal and
// RFP files into markdown text.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client

	apiKey       string
	pollInterval time.Duration
	maxPolls     int
	logger       *zap.Logger
}

func New(apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		BaseURL:      defaultBaseURL,
		UserAgent:    defaultUserAgent,
		HTTPClient:   &http.Client{Timeout: 2 * time.Minute},
		apiKey:       apiKey,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
		logger:       logger,
	}
}

type jobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Parse uploads the file, waits for the parsing job to finish, and returns
// the markdown text. The upload is retried once with a fresh request on a
// transient transport error; service-level failures propagate immediately.
func (c *Client) Parse(ctx context.Context, filePath string) (string, error) {
	jobID, err := c.upload(ctx, filePath)
	if err != nil && isTransient(err) {
		c.logger.Warn("retrying upload after transport error",
			zap.String("file", filePath),
			zap.Error(err),
		)
		jobID, err = c.upload(ctx, filePath)
	}
	if err != nil {
		return "", err
	}

	c.logger.Debug("parsing job submitted",
		zap.String("file", filePath),
		zap.String("job_id", jobID),
	)

	if err := c.waitForJob(ctx, jobID); err != nil {
		return "", err
	}

	return c.fetchMarkdown(ctx, jobID)
}

func (c *Client) upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", filePath, err)
	}
	defer file.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	field, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(field, file); err != nil {
		return "", err
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", &b)
	if err != nil {
		return "", err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", filePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload %q: bad status: %s", filePath, resp.Status)
	}

	var job jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}

	if job.ID == "" {
		return "", errors.New("parsing service returned no job id")
	}

	return job.ID, nil
}

func (c *Client) waitForJob(ctx context.Context, jobID string) error {
	for poll := 0; poll < c.maxPolls; poll++ {
		var job jobResponse
		if err := c.getJSON(ctx, fmt.Sprintf("%s/job/%s", c.BaseURL, jobID), &job); err != nil {
			return err
		}

		switch strings.ToUpper(job.Status) {
		case jobStatusSuccess:
			return nil
		case jobStatusError:
			return fmt.Errorf("parsing job %s failed: %s", jobID, job.Error)
		}

		if err := utils.WaitFor(ctx, c.pollInterval); err != nil {
			return err
		}
	}

	return fmt.Errorf("parsing job %s did not finish after %d polls", jobID, c.maxPolls)
}

func (c *Client) fetchMarkdown(ctx context.Context, jobID string) (string, error) {
	var result struct {
		Markdown string `json:"markdown"`
	}

	if err := c.getJSON(ctx, fmt.Sprintf("%s/job/%s/result/markdown", c.BaseURL, jobID), &result); err != nil {
		return "", err
	}

	if strings.TrimSpace(result.Markdown) == "" {
		return "", fmt.Errorf("parsing job %s returned an empty document", jobID)
	}

	return result.Markdown, nil
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("User-Agent", c.UserAgent)

	return req
}

// isTransient reports whether the upload failed below the HTTP layer, where
// a fresh request on a new connection is worth one retry.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
