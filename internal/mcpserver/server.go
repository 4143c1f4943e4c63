// Package mcpserver exposes eino tools and JSON resources as a Model Context
// Protocol server on stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

const jsonMIME = "application/json"

var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// ResourceFunc produces the JSON-encodable body of a resource.
type ResourceFunc func(ctx context.Context) (any, error)

type Server struct {
	mcp   *server.MCPServer
	tools map[string]bool
}

func New(name, version string) *Server {
	hooks := &server.Hooks{}
	hooks.AddBeforeAny(func(ctx context.Context, id any, method mcp.MCPMethod, message any) {
		logger.L().WithFields(logrus.Fields{
			"request_id": uuid.NewString(),
			"rpc_id":     id,
			"method":     method,
		}).Debug("handling request")
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.L().WithError(err).WithFields(logrus.Fields{
			"rpc_id": id,
			"method": method,
		}).Warn("request failed")
	})

	return &Server{
		mcp: server.NewMCPServer(name, version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithHooks(hooks),
			server.WithRecovery(),
		),
		tools: map[string]bool{},
	}
}

// AddTools registers each tool under its eino name, with its parameters
// translated into the tool's JSON input schema.
func (s *Server) AddTools(ctx context.Context, tools ...tool.InvokableTool) error {
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return fmt.Errorf("tool info: %w", err)
		}
		if s.tools[info.Name] {
			return fmt.Errorf("tool already registered: %s", info.Name)
		}
		inputSchema, err := toolInputSchema(info)
		if err != nil {
			return fmt.Errorf("tool %s schema: %w", info.Name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(info.Name, info.Desc, inputSchema), invokeHandler(info.Name, t))
		s.tools[info.Name] = true
	}
	return nil
}

func toolInputSchema(info *schema.ToolInfo) (json.RawMessage, error) {
	if info.ParamsOneOf == nil {
		return emptyObjectSchema, nil
	}
	paramSchema, err := info.ParamsOneOf.ToOpenAPIV3()
	if err != nil {
		return nil, err
	}
	if paramSchema == nil || len(paramSchema.Properties) == 0 {
		return emptyObjectSchema, nil
	}
	return json.Marshal(paramSchema)
}

func invokeHandler(name string, t tool.InvokableTool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if request.Params.Arguments != nil {
			data, err := json.Marshal(request.Params.Arguments)
			if err != nil {
				return errorResult("invalid arguments: " + err.Error()), nil
			}
			if string(data) != "null" {
				args = string(data)
			}
		}

		out, err := t.InvokableRun(ctx, args)
		if err != nil {
			logger.L().WithError(err).WithField("tool", name).Error("tool call failed")
			return errorResult(err.Error()), nil
		}
		return textResult(out), nil
	}
}

func (s *Server) AddResource(uri, name, description string, read ResourceFunc) {
	resource := mcp.NewResource(uri, name,
		mcp.WithResourceDescription(description),
		mcp.WithMIMEType(jsonMIME),
	)
	s.mcp.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		body, err := read(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: jsonMIME, Text: string(data)},
		}, nil
	})
}

// Serve speaks newline-delimited JSON-RPC on in/out until in is exhausted
// or ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(logger.L().WriterLevel(logrus.ErrorLevel), "", 0))
	return stdio.Listen(ctx, in, out)
}

// HandleMessage processes one raw JSON-RPC message and returns the response,
// or nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, raw []byte) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, json.RawMessage(raw))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
