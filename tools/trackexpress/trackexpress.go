// Package trackexpress provides the query_express tool.
package trackexpress

import (
	"context"
	"reflect"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	jsonenc "github.com/effective-security/expressmcp/encoding/json"
	"github.com/effective-security/expressmcp/pkg/metricskey"
	"github.com/effective-security/expressmcp/schema"
	"github.com/effective-security/expressmcp/store"
	"github.com/effective-security/expressmcp/tools"
	"github.com/effective-security/expressmcp/tracking"
	"github.com/effective-security/expressmcp/utils"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/expressmcp/tools", "trackexpress")

const ToolName = "query_express"

// Request represents the tool input.
type Request struct {
	Com      string `json:"com" yaml:"com" validate:"required" jsonschema:"description=快递公司名称或快递编码，例如 中通 或 zhongtong"`
	Num      string `json:"num" yaml:"num" validate:"required" jsonschema:"description=快递单号"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty" jsonschema:"description=收件人或寄件人手机号，顺丰必填"`
	From     string `json:"from,omitempty" yaml:"from,omitempty" jsonschema:"description=出发地城市"`
	To       string `json:"to,omitempty" yaml:"to,omitempty" jsonschema:"description=目的地城市"`
	ResultV2 string `json:"resultv2,omitempty" yaml:"resultv2,omitempty" jsonschema:"description=开启行政区域解析，1 为开启"`
	Show     string `json:"show,omitempty" yaml:"show,omitempty" validate:"omitempty,oneof=0 1 2 3" jsonschema:"description=返回格式，0 为 JSON"`
	Order    string `json:"order,omitempty" yaml:"order,omitempty" validate:"omitempty,oneof=desc asc" jsonschema:"description=排序，默认 desc,enum=desc,enum=asc"`
	Raw      bool   `json:"raw,omitempty" yaml:"raw,omitempty" jsonschema:"description=返回原始 JSON 响应"`
}

// Tool queries the shipment status.
type Tool struct {
	name        string
	description string

	client *tracking.Client
	cache  store.TrackingCache
	ttl    time.Duration
	runner *tools.Runner
}

// ensure Tool implements the interfaces
var (
	_ tools.Tool[Request, tracking.Response] = (*Tool)(nil)
	_ tools.MCPTool[Request]                 = (*Tool)(nil)
)

func New(client *tracking.Client) *Tool {
	t := &Tool{
		name:        ToolName,
		description: "实时快递查询：根据快递公司和快递单号查询物流轨迹",
		client:      client,
	}
	t.runner = tools.NewRunner(t)
	return t
}

// WithCache enables caching of the responses for the TTL.
func (t *Tool) WithCache(cache store.TrackingCache, ttl time.Duration) *Tool {
	t.cache = cache
	t.ttl = ttl
	return t
}

func (t *Tool) WithCallback(callback tools.Callback) *Tool {
	t.runner.WithCallback(callback)
	return t
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return schema.Must(reflect.TypeOf(Request{})).Parameters
}

// Params returns the vendor query for the request.
func (r *Request) Params() (*tracking.QueryParams, error) {
	com, err := tracking.CompanyCode(r.Com)
	if err != nil {
		return nil, err
	}
	p := &tracking.QueryParams{
		Com:      com,
		Num:      r.Num,
		Phone:    r.Phone,
		From:     r.From,
		To:       r.To,
		ResultV2: r.ResultV2,
		Show:     r.Show,
		Order:    r.Order,
	}
	if p.Show == "" {
		p.Show = "0"
	}
	if p.Order == "" {
		p.Order = "desc"
	}
	return p, nil
}

func (t *Tool) Run(ctx context.Context, req *Request) (*tracking.Response, error) {
	if err := tools.Validate(req); err != nil {
		return nil, err
	}
	params, err := req.Params()
	if err != nil {
		return nil, err
	}

	variant, err := CacheVariant(params)
	if err != nil {
		return nil, err
	}
	if res := t.cached(ctx, params, variant); res != nil {
		return res, nil
	}

	res, err := t.client.Query(ctx, params)
	if err != nil {
		return nil, err
	}

	if t.cache != nil && res.Result != nil {
		if err := t.cache.Put(ctx, params.Com, params.Num, variant, []byte(res.Raw), t.ttl); err != nil {
			logger.ContextKV(ctx, xlog.WARNING, "reason", "cache_put", "err", err.Error())
		}
	}
	return res, nil
}

// CacheVariant returns the hash of the encoded query,
// responses to the same shipment differ by order, phone and the other options.
func CacheVariant(params *tracking.QueryParams) (string, error) {
	encoded, err := tracking.EncodeParams(params)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64String(encoded), 16), nil
}

func (t *Tool) cached(ctx context.Context, params *tracking.QueryParams, variant string) *tracking.Response {
	if t.cache == nil {
		return nil
	}
	raw, ok, err := t.cache.Get(ctx, params.Com, params.Num, variant)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "cache_get", "err", err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	metricskey.StatsTrackingCacheHits.IncrCounter(1, params.Com)
	return tracking.ParseResponse(raw)
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req Request
	if err := jsonenc.Default.Unmarshal([]byte(input), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	return t.runner.Run(ctx, input, func(ctx context.Context) (string, error) {
		return t.text(ctx, &req)
	})
}

func (t *Tool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, func(ctx context.Context, req Request) (*mcp.ToolResponse, error) {
		return t.RunMCP(ctx, &req)
	})
}

func (t *Tool) RunMCP(ctx context.Context, req *Request) (*mcp.ToolResponse, error) {
	text, err := t.runner.Run(ctx, utils.ToJSON(req), func(ctx context.Context) (string, error) {
		return t.text(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(text)), nil
}

func (t *Tool) text(ctx context.Context, req *Request) (string, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return "", err
	}
	if req.Raw {
		return res.Raw, nil
	}
	return "实时查询快递成功：\n" + res.Summary(), nil
}
