package todo

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okihara/juiz-mcp/internal/middleware"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/pkg/response"
	"github.com/okihara/juiz-mcp/internal/service"
)

// --- add_todo ---

type AddTodoInput struct {
	UserID       string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user owning the todo"`
	Title        string `json:"title" jsonschema:"required" jsonschema_description:"Todo title (1-200 characters)"`
	Description  string `json:"description,omitempty" jsonschema_description:"Optional details (up to 1000 characters)"`
	SyncToGoogle *bool  `json:"sync_to_google,omitempty" jsonschema_description:"Mirror the todo to Google Tasks (default true)"`
}

type AddTodoOutput struct {
	Todo model.TodoItem `json:"todo"`
}

func createAddTodoHandler(svc *service.TodoService) mcp.ToolHandlerFor[AddTodoInput, AddTodoOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AddTodoInput) (*mcp.CallToolResult, AddTodoOutput, error) {
		sync := true
		if input.SyncToGoogle != nil {
			sync = *input.SyncToGoogle
		}

		todo, err := svc.Add(ctx, input.UserID, input.Title, input.Description, sync)
		if err != nil {
			return nil, AddTodoOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Todo Created")
		rb.KeyValue("Title", todo.Title)
		rb.KeyValue("ID", todo.ID)
		if todo.Description != "" {
			rb.KeyValue("Description", todo.Description)
		}
		if todo.GoogleTaskID != "" {
			rb.KeyValue("Google Task ID", todo.GoogleTaskID)
		} else if sync {
			rb.Line("Google Tasks sync did not complete; the todo is saved locally.")
		}

		return rb.TextResult(), AddTodoOutput{Todo: *todo}, nil
	}
}

// --- get_all_todos ---

type GetAllTodosInput struct {
	UserID             string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user"`
	FilterStatus       string `json:"filter_status,omitempty" jsonschema_description:"Filter by status: all, completed, or active (default all)"`
	IncludeGoogleTasks *bool  `json:"include_google_tasks,omitempty" jsonschema_description:"Merge the user's Google Tasks into the result (default true)"`
}

type GetAllTodosOutput struct {
	Todos []model.TodoItem `json:"todos"`
	Count int              `json:"count"`
}

func createGetAllTodosHandler(svc *service.TodoService) mcp.ToolHandlerFor[GetAllTodosInput, GetAllTodosOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetAllTodosInput) (*mcp.CallToolResult, GetAllTodosOutput, error) {
		includeGoogle := true
		if input.IncludeGoogleTasks != nil {
			includeGoogle = *input.IncludeGoogleTasks
		}

		todos, err := svc.GetAll(ctx, input.UserID, input.FilterStatus, includeGoogle)
		if err != nil {
			return nil, GetAllTodosOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Todos")
		rb.KeyValue("User", input.UserID)
		rb.KeyValue("Count", len(todos))
		rb.Blank()

		for _, t := range todos {
			status := "○"
			if t.Completed {
				status = "✓"
			}
			rb.Item("[%s] %s", status, t.Title)
			if t.Description != "" {
				rb.Line("    Description: %s", t.Description)
			}
			rb.Line("    ID: %s (%s)", t.ID, t.Source)
		}

		return rb.TextResult(), GetAllTodosOutput{Todos: todos, Count: len(todos)}, nil
	}
}

// --- get_todo ---

type GetTodoInput struct {
	UserID string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user"`
	TodoID string `json:"todo_id" jsonschema:"required" jsonschema_description:"Numeric local ID or google_-prefixed Google Tasks ID"`
}

type GetTodoOutput struct {
	Todo model.TodoItem `json:"todo"`
}

func createGetTodoHandler(svc *service.TodoService) mcp.ToolHandlerFor[GetTodoInput, GetTodoOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetTodoInput) (*mcp.CallToolResult, GetTodoOutput, error) {
		todo, err := svc.Get(ctx, input.UserID, input.TodoID)
		if err != nil {
			return nil, GetTodoOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Todo Details")
		rb.KeyValue("Title", todo.Title)
		rb.KeyValue("ID", todo.ID)
		rb.KeyValue("Completed", todo.Completed)
		rb.KeyValue("Source", todo.Source)
		if todo.Description != "" {
			rb.KeyValue("Description", todo.Description)
		}
		if !todo.CreatedAt.IsZero() {
			rb.KeyValue("Created", todo.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		return rb.TextResult(), GetTodoOutput{Todo: *todo}, nil
	}
}

// --- update_todo_status ---

type UpdateTodoStatusInput struct {
	UserID    string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user"`
	TodoID    string `json:"todo_id" jsonschema:"required" jsonschema_description:"Numeric local ID or google_-prefixed Google Tasks ID"`
	Completed bool   `json:"completed" jsonschema:"required" jsonschema_description:"New completion state"`
}

type UpdateTodoStatusOutput struct {
	Todo model.TodoItem `json:"todo"`
}

func createUpdateTodoStatusHandler(svc *service.TodoService) mcp.ToolHandlerFor[UpdateTodoStatusInput, UpdateTodoStatusOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input UpdateTodoStatusInput) (*mcp.CallToolResult, UpdateTodoStatusOutput, error) {
		todo, err := svc.UpdateStatus(ctx, input.UserID, input.TodoID, input.Completed)
		if err != nil {
			return nil, UpdateTodoStatusOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Todo Updated")
		rb.KeyValue("Title", todo.Title)
		rb.KeyValue("ID", todo.ID)
		rb.KeyValue("Completed", todo.Completed)

		return rb.TextResult(), UpdateTodoStatusOutput{Todo: *todo}, nil
	}
}
