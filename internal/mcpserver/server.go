// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the textpad document over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/textpad/internal/apperr"
	"github.com/starford/textpad/internal/models"
)

// DocumentURI identifies the document resource.
const DocumentURI = "textpad://document"

// Document is the persistence the tools drive.
type Document interface {
	Append(ctx context.Context, text string) (bool, error)
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) (bool, error)
	Info(ctx context.Context) (models.DocumentInfo, error)
}

// Server wraps the MCP server with textpad tools.
type Server struct {
	mcp *server.MCPServer
	doc Document
}

// New creates a new MCP server with all tools registered.
func New(doc Document, version string) *Server {
	s := &Server{doc: doc}

	s.mcp = server.NewMCPServer(
		"textpad",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("save_text",
		mcp.WithDescription("Append text to the scratch pad as one newline-terminated line. "+
			"Empty text saves nothing. Existing content is never overwritten."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to append")),
	), s.saveText)

	s.mcp.AddTool(mcp.NewTool("load_text",
		mcp.WithDescription("Read everything saved in the scratch pad."),
	), s.loadText)

	s.mcp.AddTool(mcp.NewTool("clear_text",
		mcp.WithDescription("Delete the scratch pad. Safe to call when nothing is saved."),
	), s.clearText)

	s.mcp.AddTool(mcp.NewTool("document_info",
		mcp.WithDescription("Report the scratch pad location, size and checksum."),
	), s.documentInfo)

	s.mcp.AddResource(
		mcp.NewResource(DocumentURI, "Scratch pad",
			mcp.WithResourceDescription("Full text of the scratch pad."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readDocumentResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) saveText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	saved, err := s.doc.Append(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !saved {
		return mcp.NewToolResultText("nothing to save"), nil
	}
	return mcp.NewToolResultText("saved"), nil
}

func (s *Server) loadText(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.doc.Load(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("nothing saved yet"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) clearText(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	removed, err := s.doc.Clear(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !removed {
		return mcp.NewToolResultText("nothing to clear"), nil
	}
	return mcp.NewToolResultText("cleared"), nil
}

func (s *Server) documentInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.doc.Info(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocumentResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := s.doc.Load(ctx)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentURI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}
