package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/prisma-infer/internal/cache"
	"github.com/usestring/prisma-infer/internal/config"
	"github.com/usestring/prisma-infer/internal/logging"
	"github.com/usestring/prisma-infer/internal/mcp"
	"github.com/usestring/prisma-infer/internal/mcp/tools"
	"github.com/usestring/prisma-infer/internal/query"
	"github.com/usestring/prisma-infer/internal/source"
)

// Server is the prisma-infer MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin inference tools.
//
// Configuration is read from the environment; use functional options to
// override it, set up logging, or add custom tools.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.config == nil {
		cfg.config = config.Load()
	}

	logCfg := cfg.config.Logging()
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	var logCleanup func() error
	if !cfg.keepLogger {
		var err error
		logCleanup, err = logging.Setup(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to setup logging: %w", err)
		}
	}

	resultCache, err := cache.NewResultCache(cfg.config.ResultCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	engine := query.NewEngine()
	loader := source.NewLoader(cfg.config.MaxInputBytes, engine)

	toolDeps := &tools.Deps{
		Config: cfg.config,
		Cache:  resultCache,
		Loader: loader,
	}
	deps := &Deps{
		Config: cfg.config,
		Cache:  resultCache,
		Loader: loader,
		Query:  engine,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	for _, fn := range cfg.extensions {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		if logCleanup != nil {
			_ = logCleanup()
		}
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying SDK server, e.g. to connect it to a
// transport other than stdio.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
