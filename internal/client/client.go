package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/treeshop/catalog/internal/catalog"
	"github.com/treeshop/catalog/internal/catalog/service"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	httpTimeoutEnvKey  = "CATALOG_HTTP_TIMEOUT"
)

// Image is a file to send as the "image" part of a create or update.
type Image struct {
	Filename string
	Body     io.Reader
}

// APIError is a non-2xx answer from the catalog backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a simple HTTP client for the catalog API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.text(ctx, http.MethodGet, "/")
	return err
}

func (c *Client) ListProducts(ctx context.Context) ([]catalog.Item, error) {
	var resp []catalog.Item
	err := c.do(ctx, http.MethodGet, "/products", nil, "", &resp)
	return resp, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Item, error) {
	var resp catalog.Item
	err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, "", &resp)
	return resp, err
}

// CreateProduct uploads img together with the product fields.
func (c *Client) CreateProduct(ctx context.Context, name, description string, img *Image) (catalog.Item, error) {
	var resp catalog.Item
	body, contentType := productForm(name, description, img)
	err := c.do(ctx, http.MethodPost, "/add-product", body, contentType, &resp)
	return resp, err
}

// UpdateProduct replaces name and description; img is optional.
func (c *Client) UpdateProduct(ctx context.Context, id, name, description string, img *Image) (service.UpdateResult, error) {
	var resp service.UpdateResult
	body, contentType := productForm(name, description, img)
	err := c.do(ctx, http.MethodPut, "/product/"+url.PathEscape(id), body, contentType, &resp)
	return resp, err
}

// DeleteProduct returns the backend's confirmation message.
func (c *Client) DeleteProduct(ctx context.Context, id string) (string, error) {
	return c.text(ctx, http.MethodDelete, "/product/"+url.PathEscape(id))
}

// productForm streams the multipart body through a pipe so large images are
// never held in memory twice.
func productForm(name, description string, img *Image) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeProductForm(mw, name, description, img)
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()
	return pr, mw.FormDataContentType()
}

func writeProductForm(mw *multipart.Writer, name, description string, img *Image) error {
	if err := mw.WriteField("name", name); err != nil {
		return err
	}
	if err := mw.WriteField("description", description); err != nil {
		return err
	}
	if img == nil {
		return nil
	}
	part, err := mw.CreateFormFile("image", img.Filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, img.Body)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) text(ctx context.Context, method, path string) (string, error) {
	resp, err := c.send(ctx, method, path, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return string(b), err
}

func decodeError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Message = errResp.Error
	}
	return apiErr
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
