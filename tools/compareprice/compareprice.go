// Package compareprice provides the compare_price tool.
package compareprice

import (
	"context"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/encoding"
	jsonenc "github.com/effective-security/expressmcp/encoding/json"
	"github.com/effective-security/expressmcp/pkg/metricskey"
	"github.com/effective-security/expressmcp/pricing"
	"github.com/effective-security/expressmcp/schema"
	"github.com/effective-security/expressmcp/tools"
	"github.com/effective-security/expressmcp/utils"
	mcp "github.com/metoro-io/mcp-golang"
)

const ToolName = "compare_price"

// TextTemplate is used to render the result in text format.
const TextTemplate = `{{.From}} → {{.To}} 快递价格比较（共{{len .Quotes}}家，按价格从低到高）
{{range $i, $q := .Quotes}}
{{add1 $i}}. {{$q.Courier}}：{{$q.Price.StringFixed 2}}元，计费重量{{$q.ChargeableWeight}}kg
   {{$q.Description}}
{{- end}}`

// Request represents the tool input.
type Request struct {
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty" validate:"gte=0,lte=10000" jsonschema:"description=包裹重量（kg），默认 1，不超过 10000"`
	Length float64 `json:"length,omitempty" yaml:"length,omitempty" validate:"gte=0,lte=1000" jsonschema:"description=包裹长度（cm），不超过 1000"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0,lte=1000" jsonschema:"description=包裹宽度（cm），不超过 1000"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0,lte=1000" jsonschema:"description=包裹高度（cm），不超过 1000"`
	From   string  `json:"from" yaml:"from" validate:"required" jsonschema:"description=寄件地址，例如 上海 或 浙江杭州"`
	To     string  `json:"to" yaml:"to" validate:"required" jsonschema:"description=收件地址，例如 北京"`
	Format string  `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=text json yaml toml" jsonschema:"description=输出格式，默认 text,enum=text,enum=json,enum=yaml,enum=toml"`
}

// Result is the comparison of all couriers, cheapest first.
type Result struct {
	From   string                `json:"from" yaml:"from" toml:"from"`
	To     string                `json:"to" yaml:"to" toml:"to"`
	Weight float64               `json:"weight" yaml:"weight" toml:"weight"`
	Quotes []*pricing.PriceQuote `json:"quotes" yaml:"quotes" toml:"quotes"`
}

// Tool compares the estimated prices of the couriers.
type Tool struct {
	name        string
	description string
	runner      *tools.Runner
}

// ensure Tool implements the interfaces
var (
	_ tools.Tool[Request, Result] = (*Tool)(nil)
	_ tools.MCPTool[Request]      = (*Tool)(nil)
)

func New() *Tool {
	t := &Tool{
		name:        ToolName,
		description: "快递价格比较：根据重量、尺寸、寄件地和收件地估算各快递公司的运费，按价格从低到高排序",
	}
	t.runner = tools.NewRunner(t)
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

func (t *Tool) Run(_ context.Context, req *Request) (*Result, error) {
	if err := tools.Validate(req); err != nil {
		return nil, err
	}

	weight := req.Weight
	if weight <= 0 {
		weight = 1
	}
	quotes, err := pricing.CompareAll(&pricing.Request{
		Weight: weight,
		Dimensions: pricing.Dimensions{
			Length: req.Length,
			Width:  req.Width,
			Height: req.Height,
		},
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		From:   strings.TrimSpace(req.From),
		To:     strings.TrimSpace(req.To),
		Weight: weight,
		Quotes: quotes,
	}, nil
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
	enc, err := encoding.PredefinedEncoder(req.Format, TextTemplate)
	if err != nil {
		return "", err
	}

	format := req.Format
	if format == "" {
		format = encoding.FormatDefault
	}
	metricskey.StatsPriceComparisons.IncrCounter(1, format)

	bs, err := enc.Marshal(res)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode result")
	}
	return string(bs), nil
}
