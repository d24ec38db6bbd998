// Package tracking is the client of the kuaidi100 real time query API.
package tracking

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/expressmcp", "tracking")

// DefaultBaseURL is the real time query endpoint
const DefaultBaseURL = "https://poll.kuaidi100.com/poll/query.do"

// ErrMissingParams is returned when the company or the number is empty.
var ErrMissingParams = errors.New("com and num are required")

// Error is returned when the query is not accepted,
// either by HTTP status or by the vendor result code.
type Error struct {
	StatusCode int
	ReturnCode string
	Message    string
	Body       string
}

func (e *Error) Error() string {
	if e.ReturnCode != "" {
		return fmt.Sprintf("returnCode %s: %s", e.ReturnCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client queries shipments by company code and tracking number.
type Client struct {
	customer   string
	key        string
	baseURL    string
	method     string
	httpClient *http.Client
}

// New returns a client for the customer ID and authorization key.
func New(customer, key string) (*Client, error) {
	if customer == "" || key == "" {
		return nil, errors.New("customer and key are required")
	}
	return &Client{
		customer:   customer,
		key:        key,
		baseURL:    DefaultBaseURL,
		method:     http.MethodPost,
		httpClient: http.DefaultClient,
	}, nil
}

func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithMethod selects GET with the query string,
// or POST with the form body, which is the default.
func (c *Client) WithMethod(method string) *Client {
	c.method = method
	return c
}

// Sign returns the vendor signature of the request.
func Sign(param, key, customer string) string {
	sum := md5.Sum([]byte(param + key + customer))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// EncodeParams returns the signed JSON form of the params.
func EncodeParams(params *QueryParams) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(params); err != nil {
		return "", errors.Wrap(err, "failed to encode params")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Query returns the current status of the shipment.
func (c *Client) Query(ctx context.Context, params *QueryParams) (*Response, error) {
	if params.Com == "" || params.Num == "" {
		return nil, errors.WithStack(ErrMissingParams)
	}

	started := time.Now()
	defer metricskey.PerfTrackingQuery.MeasureSince(started, params.Com)

	res, err := c.query(ctx, params)
	if err != nil {
		metricskey.StatsTrackingQueriesFailed.IncrCounter(1, params.Com)
		logger.ContextKV(ctx, xlog.ERROR,
			"com", params.Com,
			"num", params.Num,
			"err", err.Error(),
		)
		return nil, errors.Wrap(err, "tracking query failed")
	}
	metricskey.StatsTrackingQueriesSucceeded.IncrCounter(1, params.Com)
	return res, nil
}

func (c *Client) query(ctx context.Context, params *QueryParams) (*Response, error) {
	param, err := EncodeParams(params)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("customer", c.customer)
	form.Set("sign", Sign(param, c.key, c.customer))
	form.Set("param", param)

	var req *http.Request
	if c.method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+form.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"method", req.Method,
		"com", params.Com,
		"num", params.Num,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.WithStack(&Error{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		})
	}

	res := ParseResponse(body)
	if res.Result != nil && res.Result.Rejected() {
		return nil, errors.WithStack(&Error{
			StatusCode: resp.StatusCode,
			ReturnCode: res.Result.ReturnCode,
			Message:    res.Result.Message,
			Body:       string(body),
		})
	}
	return res, nil
}

// ParseResponse parses the vendor body,
// a malformed body is kept in Raw only.
func ParseResponse(body []byte) *Response {
	var res QueryResult
	if err := ljson.Unmarshal(body, &res); err != nil {
		logger.KV(xlog.DEBUG, "reason", "parse", "err", err.Error())
		return &Response{Raw: string(body)}
	}
	return &Response{Result: &res, Raw: string(body)}
}
