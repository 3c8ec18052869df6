package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nick-dorsch/taskboard/internal/board"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

// NewServer creates a new MCP server exposing the board as tools.
func NewServer(b *board.Board, version string) *server.MCPServer {
	s := server.NewMCPServer("TaskBoard", version)

	s.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Add a task to the top of the list. Blank text is ignored."),
		mcp.WithString("text", mcp.Description("Task text"), mcp.Required()),
	), addTaskHandler(b))

	s.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip a task between active and completed."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), toggleTaskHandler(b))

	s.AddTool(mcp.NewTool("remove_task",
		mcp.WithDescription("Delete a task permanently."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), removeTaskHandler(b))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks, newest first."),
		mcp.WithString("filter",
			mcp.Description("Which tasks to return (defaults to 'all')"),
			mcp.Enum(string(models.FilterAll), string(models.FilterActive), string(models.FilterCompleted)),
		),
	), listTasksHandler(b))

	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Get total, active, and completed counts."),
	), getStatsHandler(b))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func addTaskHandler(b *board.Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := mcp.ParseString(request, "text", "")

		t, ok := b.Add(ctx, text)
		if !ok {
			return mcp.NewToolResultText("Task text is blank; nothing was added."), nil
		}
		return jsonResult(t)
	}
}

func toggleTaskHandler(b *board.Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := models.TaskID(mcp.ParseString(request, "id", ""))

		if !b.Toggle(ctx, id) {
			return mcp.NewToolResultText(fmt.Sprintf("No task with id '%s'; nothing changed.", id)), nil
		}
		return jsonResult(b.Get(id))
	}
}

func removeTaskHandler(b *board.Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := models.TaskID(mcp.ParseString(request, "id", ""))

		if !b.Remove(ctx, id) {
			return mcp.NewToolResultText(fmt.Sprintf("No task with id '%s'; nothing changed.", id)), nil
		}
		return mcp.NewToolResultText("Task removed successfully"), nil
	}
}

func listTasksHandler(b *board.Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode := models.ParseFilterMode(mcp.ParseString(request, "filter", ""))
		tasks := board.Filter(b.Tasks(), mode)

		return jsonResult(map[string]interface{}{
			"filter": mode,
			"tasks":  tasks,
		})
	}
}

func getStatsHandler(b *board.Board) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(board.ComputeStats(b.Tasks()))
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
