// Package todo exposes the TODO operations as MCP tools.
package todo

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okihara/juiz-mcp/internal/pkg/ptr"
	"github.com/okihara/juiz-mcp/internal/service"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/tasks_2021_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// Register registers the todo tools that pass the include filter with the
// MCP server.
func Register(server *mcp.Server, svc *service.TodoService, include func(name string, annotations *mcp.ToolAnnotations) bool) {
	addTodo := &mcp.Tool{
		Name:        "add_todo",
		Icons:       serviceIcons,
		Description: "Add a new TODO item. The item is saved locally and mirrored to the user's Google Tasks unless sync_to_google is false.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Add Todo",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(addTodo.Name, addTodo.Annotations) {
		mcp.AddTool(server, addTodo, createAddTodoHandler(svc))
	}

	getAllTodos := &mcp.Tool{
		Name:        "get_all_todos",
		Icons:       serviceIcons,
		Description: "List the user's TODO items, optionally filtered by completion status and merged with their Google Tasks.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get All Todos",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(getAllTodos.Name, getAllTodos.Annotations) {
		mcp.AddTool(server, getAllTodos, createGetAllTodosHandler(svc))
	}

	getTodo := &mcp.Tool{
		Name:        "get_todo",
		Icons:       serviceIcons,
		Description: "Get a single TODO item by ID. Numeric IDs address local items; google_-prefixed IDs address Google Tasks.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Todo",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(getTodo.Name, getTodo.Annotations) {
		mcp.AddTool(server, getTodo, createGetTodoHandler(svc))
	}

	updateTodoStatus := &mcp.Tool{
		Name:        "update_todo_status",
		Icons:       serviceIcons,
		Description: "Mark a TODO item completed or active. Numeric IDs address local items; google_-prefixed IDs address Google Tasks.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Update Todo Status",
			IdempotentHint: true,
			OpenWorldHint:  ptr.Bool(true),
		},
	}
	if include(updateTodoStatus.Name, updateTodoStatus.Annotations) {
		mcp.AddTool(server, updateTodoStatus, createUpdateTodoStatusHandler(svc))
	}
}
