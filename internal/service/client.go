// internal/service/client.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"loantracker/internal/common/errors"
	"loantracker/internal/common/httpx"
	"loantracker/internal/common/logger"
	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dateParamLayout = "2006-01-02"

// Client is the REST-backed ApplicationService. All request/response
// bodies use the backend's snake_case JSON contract; failures come back
// as StandardError so callers never branch on HTTP status codes.
type Client struct {
	baseURL string
	http    *httpx.Client
	log     logger.Logger
}

// NewClient builds a REST client against the given base URL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpx.NewClient(timeout),
		log:     log,
	}
}

func (c *Client) List(ctx context.Context, status models.Status) ([]models.Application, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var out []models.Application
	if err := c.getJSON(ctx, "/applications", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Application, error) {
	var out models.Application
	if err := c.getJSON(ctx, "/applications/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchByName(ctx context.Context, firstName, lastName string) (*models.Application, error) {
	q := url.Values{}
	q.Set("first_name", firstName)
	q.Set("last_name", lastName)
	var out models.Application
	if err := c.getJSON(ctx, "/applications/search", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, app *models.Application) (string, error) {
	body, err := json.Marshal(app)
	if err != nil {
		return "", errors.NewTransportError(err)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/applications", nil, bytes.NewReader(body), &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) Update(ctx context.Context, id string, upd models.ApplicationUpdate) error {
	body, err := json.Marshal(upd)
	if err != nil {
		return errors.NewTransportError(err)
	}
	return c.doJSON(ctx, http.MethodPut, "/applications/"+url.PathEscape(id), nil, bytes.NewReader(body), nil)
}

func (c *Client) Report(ctx context.Context, f report.Filter, s report.Sort, page, pageSize int) (*report.Page, error) {
	q := filterQuery(f)
	addSortQuery(q, s)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	var out report.Page
	if err := c.getJSON(ctx, "/applications/report", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Summary(ctx context.Context, f report.Filter) (*report.Overview, error) {
	var out report.Overview
	if err := c.getJSON(ctx, "/applications/report/summary", filterQuery(f), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DownloadReport(ctx context.Context, format export.Format, f report.Filter, s report.Sort) ([]byte, error) {
	q := filterQuery(f)
	addSortQuery(q, s)
	q.Set("format", string(format))
	resp, err := c.do(ctx, http.MethodGet, "/applications/report/download", q, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(err)
	}
	return data, nil
}

func (c *Client) UploadFile(ctx context.Context, id string, fileType models.FileType, filename string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return errors.NewUploadFailedError(string(fileType), err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return errors.NewUploadFailedError(string(fileType), err)
	}
	if err := mw.Close(); err != nil {
		return errors.NewUploadFailedError(string(fileType), err)
	}

	q := url.Values{}
	q.Set("file_type", string(fileType))
	resp, err := c.do(ctx, http.MethodPost, "/applications/"+url.PathEscape(id)+"/upload", q, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp)
}

func (c *Client) ListFiles(ctx context.Context, id string) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/applications/"+url.PathEscape(id)+"/files", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DownloadFile(ctx context.Context, id string, fileType models.FileType) ([]byte, error) {
	q := url.Values{}
	q.Set("file_type", string(fileType))
	resp, err := c.do(ctx, http.MethodGet, "/applications/"+url.PathEscape(id)+"/download", q, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(err)
	}
	return data, nil
}

func filterQuery(f report.Filter) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if !f.From.IsZero() {
		q.Set("start_date", f.From.Format(dateParamLayout))
	}
	if !f.To.IsZero() {
		q.Set("end_date", f.To.Format(dateParamLayout))
	}
	return q
}

func addSortQuery(q url.Values, s report.Sort) {
	if s.Column == "" {
		return
	}
	q.Set("sort", string(s.Column))
	if s.Desc {
		q.Set("desc", "true")
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, q, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, body io.Reader, out interface{}) error {
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	resp, err := c.do(ctx, method, path, q, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewTransportError(err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.NewTransportError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Error("request failed", map[string]interface{}{
			"method": method,
			"path":   path,
		})
		return nil, errors.NewTransportError(err)
	}
	return resp, nil
}

// checkStatus converts a non-2xx response into the StandardError the
// backend serialized, falling back to a transport error on an opaque body.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer io.Copy(io.Discard, resp.Body)

	var se errors.StandardError
	if err := json.NewDecoder(resp.Body).Decode(&se); err == nil && se.Code != "" {
		return &se
	}
	return errors.NewTransportError(fmt.Errorf("unexpected status %d", resp.StatusCode))
}
