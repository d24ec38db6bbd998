// Package server wires the express tools and resources into an MCP server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/callbacks"
	"github.com/effective-security/expressmcp/config"
	"github.com/effective-security/expressmcp/geo"
	"github.com/effective-security/expressmcp/pricing"
	"github.com/effective-security/expressmcp/store"
	"github.com/effective-security/expressmcp/tools"
	"github.com/effective-security/expressmcp/tools/compareprice"
	"github.com/effective-security/expressmcp/tools/trackexpress"
	"github.com/effective-security/expressmcp/tracking"
	"github.com/effective-security/expressmcp/utils"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
	mcphttp "github.com/metoro-io/mcp-golang/transport/http"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/redis/go-redis/v9"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/expressmcp", "server")

// Name of the MCP server
const Name = "mcp-server-express"

// Version of the MCP server, set by the build
var Version = "0.1.0"

// Resource URIs
const (
	ResourceRates     = "express://rates"
	ResourceProvinces = "express://provinces"
	ResourceCompanies = "express://companies"
	ResourceStats     = "express://stats"
	ResourceTools     = "express://tools"
	ResourceJournal   = "express://journal"
)

// Server is the express MCP server.
type Server struct {
	mcp        *mcp.Server
	tools      []tools.IMCPTool
	scratchpad *callbacks.Scratchpad
	redis      *redis.Client
}

type options struct {
	httpClient *http.Client
	cache      store.TrackingCache
	callbacks  []tools.Callback
}

// Option configures the server
type Option func(*options)

// WithHTTPClient sets the client used for the tracking API.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithCache overrides the cache specified in the configuration.
func WithCache(cache store.TrackingCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithCallback adds a callback for the tool events.
func WithCallback(callback tools.Callback) Option {
	return func(o *options) {
		o.callbacks = append(o.callbacks, callback)
	}
}

// NewTransport returns the MCP transport specified in the configuration.
func NewTransport(cfg *config.ServerConfig) (transport.Transport, error) {
	switch cfg.Transport {
	case "", "stdio":
		return stdio.NewStdioServerTransport(), nil
	case "http":
		return mcphttp.NewHTTPTransport(cfg.Endpoint).WithAddr(cfg.Addr), nil
	default:
		return nil, errors.Errorf("unsupported transport: %q", cfg.Transport)
	}
}

// New returns the server with the tools and resources registered.
func New(cfg *config.Config, tr transport.Transport, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client, err := newTrackingClient(cfg, o.httpClient)
	if err != nil {
		return nil, err
	}

	s := &Server{
		scratchpad: callbacks.NewScratchpad(callbacks.ModeDefault),
	}

	cache := o.cache
	if cache == nil {
		cache, err = s.newCache(&cfg.Cache)
		if err != nil {
			return nil, err
		}
	}
	ttl, err := cfg.Cache.Duration()
	if err != nil {
		return nil, err
	}

	cb := callbacks.NewFanout(s.scratchpad, callbacks.NewPackageLogger(logger))
	for _, c := range o.callbacks {
		cb.Add(c)
	}

	track := trackexpress.New(client).WithCallback(cb)
	if cache != nil {
		track.WithCache(cache, ttl)
	}
	s.tools = []tools.IMCPTool{
		track,
		compareprice.New().WithCallback(cb),
	}

	s.mcp = mcp.NewServer(tr,
		mcp.WithName(Name),
		mcp.WithVersion(Version),
	)
	for _, tool := range s.tools {
		if err := tool.RegisterMCP(s.mcp); err != nil {
			return nil, errors.Wrapf(err, "failed to register tool %s", tool.Name())
		}
	}
	if err := s.registerResources(); err != nil {
		return nil, err
	}

	logger.KV(xlog.INFO,
		"status", "created",
		"transport", cfg.Server.Transport,
		"cache", cfg.Cache.Kind,
		"tools", len(s.tools),
	)
	return s, nil
}

func newTrackingClient(cfg *config.Config, httpClient *http.Client) (*tracking.Client, error) {
	client, err := tracking.New(cfg.Customer, cfg.AuthKey)
	if err != nil {
		return nil, err
	}
	if cfg.Tracking.BaseURL != "" {
		client.WithBaseURL(cfg.Tracking.BaseURL)
	}
	client.WithMethod(cfg.Tracking.Method)

	if httpClient == nil {
		timeout, err := cfg.Tracking.Duration()
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			httpClient = &http.Client{Timeout: timeout}
		}
	}
	if httpClient != nil {
		client.WithHTTPClient(httpClient)
	}
	return client, nil
}

func (s *Server) newCache(cfg *config.CacheConfig) (store.TrackingCache, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "memory":
		return store.NewMemoryCache(), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid redis_url")
		}
		s.redis = redis.NewClient(opt)
		return store.NewRedisCache(s.redis, cfg.Prefix), nil
	default:
		return nil, errors.Errorf("unsupported cache: %q", cfg.Kind)
	}
}

func (s *Server) registerResources() error {
	asJSON := func(value func() any) func() string {
		return func() string { return utils.ToJSONIndent(value()) }
	}

	resources := []struct {
		uri, name, description, mime string
		text                         func() string
	}{
		{ResourceRates, "rates", "快递公司运费价目表及特殊政策", "application/json", asJSON(func() any { return pricing.RateCard() })},
		{ResourceProvinces, "provinces", "省级行政区及所属地区", "application/json", asJSON(func() any { return geo.Provinces() })},
		{ResourceCompanies, "companies", "支持查询的快递公司及编码", "application/json", asJSON(func() any { return tracking.Companies() })},
		{ResourceStats, "stats", "工具调用统计", "application/json", asJSON(func() any { return s.scratchpad.Stats() })},
		{ResourceTools, "tools", "工具及参数说明", "application/json", s.toolDescriptions},
		{ResourceJournal, "journal", "最近的工具调用记录", "text/plain", func() string { return string(s.scratchpad.Journal()) }},
	}

	for _, r := range resources {
		err := s.mcp.RegisterResource(r.uri, r.name, r.description, r.mime, func() (*mcp.ResourceResponse, error) {
			return mcp.NewResourceResponse(mcp.NewTextEmbeddedResource(r.uri, r.text(), r.mime)), nil
		})
		if err != nil {
			return errors.Wrapf(err, "failed to register resource %s", r.uri)
		}
	}
	return nil
}

func (s *Server) toolDescriptions() string {
	list := make([]tools.ITool, len(s.tools))
	for i, t := range s.tools {
		list[i] = t
	}
	return tools.GetDescriptions(list...)
}

// Tools returns the registered tools.
func (s *Server) Tools() []tools.IMCPTool {
	return s.tools
}

// Stats returns the tool call statistics.
func (s *Server) Stats() *callbacks.RunStats {
	return s.scratchpad.Stats()
}

// Serve starts the transport, it may block for the http transport.
func (s *Server) Serve() error {
	return s.mcp.Serve()
}

// Close releases the resources.
func (s *Server) Close() error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return errors.Wrap(err, "failed to close redis client")
		}
	}
	return nil
}

// Ping checks the cache backend.
func (s *Server) Ping(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return errors.Wrap(s.redis.Ping(ctx).Err(), "redis ping failed")
}
