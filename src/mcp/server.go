package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cisleuth/src/broker"
	"cisleuth/src/ci"
	"cisleuth/src/jenkins"
	"cisleuth/src/jobs"
	"cisleuth/src/logger"
	"cisleuth/src/report"
)

// ThreadFetcher reads the entries of a GitHub pull request thread.
type ThreadFetcher interface {
	Thread(ctx context.Context, owner, repo string, number int) ([]jobs.Entry, error)
}

// Options configures a Server.
type Options struct {
	Resolver *ci.Resolver
	Threads  ThreadFetcher
	// Broker, when set, receives every resolved report on broker.ReportsTopic.
	Broker   broker.Broker
	Logger   logger.Logger
	Version  string
}

// Server is the MCP server for cisleuth.
type Server struct {
	mcpServer *server.MCPServer
	store     ReportStore
	resolver  *ci.Resolver
	threads   ThreadFetcher
	broker    broker.Broker
	log       logger.Logger
}

// NewServer creates a server with all tools registered.
func NewServer(opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewSilentLogger()
	}

	s := &Server{
		mcpServer: server.NewMCPServer("cisleuth", opts.Version, server.WithToolCapabilities(true)),
		store:     NewInMemoryStore(),
		resolver:  opts.Resolver,
		threads:   opts.Threads,
		broker:    opts.Broker,
		log:       opts.Logger,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	resolveTool := mcp.NewTool("resolve_build",
		mcp.WithDescription("Resolve a Node.js Jenkins build (ci.nodejs.org) into classified failures. Widespread failures (seen on several machines) are expanded with a console excerpt; the rest are summarized. Use get_failure_details to drill into any group."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Jenkins build URL, e.g. https://ci.nodejs.org/job/node-test-pull-request/12345/"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max expanded failure groups (default: 15)"),
		),
	)

	detailsTool := mcp.NewTool("get_failure_details",
		mcp.WithDescription("Get the full excerpt, machines and URLs of one failure group. Use after resolve_build."),
		mcp.WithString("report_id",
			mcp.Required(),
			mcp.Description("report_id from the resolve_build response"),
		),
		mcp.WithString("group_id",
			mcp.Required(),
			mcp.Description("Group id from the resolve_build response"),
		),
	)

	threadTool := mcp.NewTool("mine_thread",
		mcp.WithDescription("List the latest Jenkins job of each kind linked from a GitHub pull request thread."),
		mcp.WithString("owner", mcp.Description("Repository owner (default: nodejs)")),
		mcp.WithString("repo", mcp.Description("Repository name (default: node)")),
		mcp.WithNumber("number", mcp.Required(), mcp.Description("Pull request number")),
	)

	s.mcpServer.AddTool(resolveTool, s.handleResolveBuild)
	s.mcpServer.AddTool(detailsTool, s.handleGetFailureDetails)
	s.mcpServer.AddTool(threadTool, s.handleMineThread)
}

// Run serves MCP on stdio until the client disconnects.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleResolveBuild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := strings.TrimSpace(request.GetString("url", ""))
	if url == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}
	limit := request.GetInt("limit", DefaultLimit)

	node, err := s.resolver.NodeFromURL(url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep, err := report.Build(ctx, s.resolver, node)
	if err != nil {
		s.log.Error("[mcp] resolve %s: %v", url, err)
		return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", jenkins.WrapError(err))), nil
	}
	s.store.Store(rep)
	s.publish(ctx, rep)

	return jsonResult(ToManifest(rep, limit))
}

func (s *Server) handleGetFailureDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportID := request.GetString("report_id", "")
	if reportID == "" {
		return mcp.NewToolResultError("report_id parameter is required"), nil
	}
	groupID := request.GetString("group_id", "")
	if groupID == "" {
		return mcp.NewToolResultError("group_id parameter is required"), nil
	}

	g, found := s.store.Group(reportID, groupID)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("failure group not found: report_id=%s, group_id=%s", reportID, groupID)), nil
	}

	d := Detail(g)
	if !g.Example.Sentinel {
		d.Excerpt = strings.Split(strings.TrimRight(g.Example.Reason, "\n"), "\n")
	}
	return jsonResult(d)
}

func (s *Server) handleMineThread(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.threads == nil {
		return mcp.NewToolResultError("GitHub access is not configured"), nil
	}
	number := request.GetInt("number", 0)
	if number <= 0 {
		return mcp.NewToolResultError("number parameter is required"), nil
	}
	owner := request.GetString("owner", "nodejs")
	repo := request.GetString("repo", "node")

	thread, err := s.threads.Thread(ctx, owner, repo, number)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read thread: %v", err)), nil
	}

	refs := jobs.Sorted(jobs.Mine(thread))
	return jsonResult(ThreadResponse{Owner: owner, Repo: repo, Number: number, Jobs: refs})
}

func (s *Server) publish(ctx context.Context, rep *report.Report) {
	if s.broker == nil {
		return
	}
	if err := broker.PublishJSON(ctx, s.broker, broker.ReportsTopic, rep.URL, rep); err != nil {
		s.log.Error("[mcp] publish %s: %v", rep.URL, err)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
