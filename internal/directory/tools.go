// Package directory exposes Microsoft Graph directory operations as MCP
// tools: a generic request escape hatch plus typed user and group lookups.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkoepke/msgraph-mcp/internal/graph"
	"github.com/mkoepke/msgraph-mcp/internal/jsonrepair"
	"github.com/mkoepke/msgraph-mcp/internal/permissions"
	"github.com/mkoepke/msgraph-mcp/internal/safety"
	"github.com/mkoepke/msgraph-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	toolNameGraphRequest     = "graph_request"
	toolNameListUsers        = "list_users"
	toolNameGetUser          = "get_user"
	toolNameListGroups       = "list_groups"
	toolNameListGroupMembers = "list_group_members"
)

// Deps bundles the collaborators shared by every directory tool.
type Deps struct {
	Forwarder graph.Forwarder
	Gate      *permissions.Gate
	Filter    *safety.Filter
	Confirm   *safety.ConfirmationTracker
	Audit     *safety.AuditLogger
}

// DirectoryTools returns a slice of tool registrations for all directory MCP
// tools, wired to the provided dependencies.
func DirectoryTools(deps Deps) []tools.Registration {
	return []tools.Registration{
		toolGraphRequest(deps),
		toolListUsers(deps),
		toolGetUser(deps),
		toolListGroups(deps),
		toolListGroupMembers(deps),
	}
}

// checkAndForward applies the endpoint filter and permission gate, then
// dispatches req. All denials and failures come back as error text results
// so the model sees them instead of a protocol failure.
func checkAndForward(ctx context.Context, deps Deps, toolName string, req graph.Request, start time.Time) (*mcp.CallToolResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		tools.LogAudit(deps.Audit, toolName, req.Endpoint, req.Method, "error: "+err.Error(), start)
		return tools.ErrorResult(err.Error()), nil
	}

	if !deps.Filter.IsAllowed(req.Endpoint) {
		msg := fmt.Sprintf("endpoint %s is not permitted", req.Endpoint)
		tools.LogAudit(deps.Audit, toolName, req.Endpoint, req.Method, "error: "+msg, start)
		return tools.ErrorResult(msg), nil
	}

	if err := deps.Gate.Check(req.Endpoint, req.Method); err != nil {
		tools.LogAudit(deps.Audit, toolName, req.Endpoint, req.Method, "error: "+err.Error(), start)
		return tools.ErrorResult(err.Error()), nil
	}

	result, err := deps.Forwarder.Do(ctx, req)
	if err != nil {
		tools.LogAudit(deps.Audit, toolName, req.Endpoint, req.Method, "error: "+err.Error(), start)
		return tools.ErrorResult(err.Error()), nil
	}

	tools.LogAudit(deps.Audit, toolName, req.Endpoint, req.Method, "ok", start)
	return tools.JSONResult(result), nil
}

// ---------------------------------------------------------------------------
// Generic request tool
// ---------------------------------------------------------------------------

func toolGraphRequest(deps Deps) tools.Registration {
	tool := mcp.NewTool(toolNameGraphRequest,
		mcp.WithDescription("Issue an arbitrary Microsoft Graph request. Use when direct API access is needed beyond the provided tools. Write methods (POST, PUT, PATCH) require a confirmation round-trip."),
		mcp.WithString("endpoint",
			mcp.Required(),
			mcp.Description("Graph resource path, e.g. /users or /groups/{id}/members."),
		),
		mcp.WithString("method",
			mcp.Description("HTTP method: GET, POST, PUT, or PATCH (default GET)."),
		),
		mcp.WithString("version",
			mcp.Description("Graph API version: beta or v1.0 (default beta)."),
		),
		mcp.WithString("body",
			mcp.Description("Optional JSON object string to send as the request body."),
		),
		mcp.WithString("query_params",
			mcp.Description("Optional JSON object string of query parameters, e.g. {\"$select\": \"displayName\"}."),
		),
		mcp.WithBoolean("all_data",
			mcp.Description("Follow @odata.nextLink pagination and return all pages combined (default false)."),
		),
		mcp.WithString("confirmation_token",
			mcp.Description("Token from a previous confirmation prompt, required for write methods."),
		),
	)

	handler := func(ctx context.Context, callReq mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		req := graph.Request{
			Endpoint: callReq.GetString("endpoint", ""),
			Method:   callReq.GetString("method", ""),
			Version:  callReq.GetString("version", ""),
			AllData:  callReq.GetBool("all_data", false),
		}

		// Model-produced argument payloads are routinely single-quoted;
		// run them through the lenient repairer before strict parsing.
		if bodyStr := callReq.GetString("body", ""); bodyStr != "" {
			var body any
			if err := json.Unmarshal([]byte(jsonrepair.Repair(bodyStr)), &body); err != nil {
				msg := fmt.Sprintf("parse body JSON: %v", err)
				tools.LogAudit(deps.Audit, toolNameGraphRequest, req.Endpoint, req.Method, "error: "+msg, start)
				return tools.ErrorResult(msg), nil
			}
			req.Body = body
		}

		if paramsStr := callReq.GetString("query_params", ""); paramsStr != "" {
			var params map[string]any
			if err := json.Unmarshal([]byte(jsonrepair.Repair(paramsStr)), &params); err != nil {
				msg := fmt.Sprintf("parse query_params JSON: %v", err)
				tools.LogAudit(deps.Audit, toolNameGraphRequest, req.Endpoint, req.Method, "error: "+msg, start)
				return tools.ErrorResult(msg), nil
			}
			req.QueryParams = params
		}

		req.Normalize()

		// Write methods need explicit confirmation before anything is sent.
		if deps.Confirm.NeedsConfirmation(req.Method) {
			token := callReq.GetString("confirmation_token", "")
			if !deps.Confirm.Confirm(token) {
				summary := fmt.Sprintf("This will send a %s request to Microsoft Graph %s %s.", req.Method, req.Version, req.Endpoint)
				tools.LogAudit(deps.Audit, toolNameGraphRequest, req.Endpoint, req.Method, "confirmation requested", start)
				return tools.ConfirmPrompt(deps.Confirm, toolNameGraphRequest, req.Method, req.Endpoint, summary), nil
			}
		}

		return checkAndForward(ctx, deps, toolNameGraphRequest, req, start)
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// ---------------------------------------------------------------------------
// User tools
// ---------------------------------------------------------------------------

func toolListUsers(deps Deps) tools.Registration {
	tool := mcp.NewTool(toolNameListUsers,
		mcp.WithDescription("List directory users with display name, mail, and job title. Follows pagination to return every user."),
		mcp.WithString("select",
			mcp.Description("Comma-separated property list (default id,displayName,mail,jobTitle)."),
		),
		mcp.WithNumber("top",
			mcp.Description("Page size hint for the upstream query (default 100)."),
		),
	)

	handler := func(ctx context.Context, callReq mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		selectList := callReq.GetString("select", "id,displayName,mail,jobTitle")
		top := callReq.GetInt("top", 100)

		req := graph.Request{
			Endpoint:    "/users",
			QueryParams: map[string]any{"$select": selectList, "$top": top},
			AllData:     true,
		}

		return checkAndForward(ctx, deps, toolNameListUsers, req, start)
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolGetUser(deps Deps) tools.Registration {
	tool := mcp.NewTool(toolNameGetUser,
		mcp.WithDescription("Get one directory user by object ID or user principal name."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User object ID or user principal name, e.g. ada@contoso.com."),
		),
	)

	handler := func(ctx context.Context, callReq mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		userID := callReq.GetString("user_id", "")
		if userID == "" {
			return tools.ErrorResult("user_id is required"), nil
		}

		req := graph.Request{Endpoint: "/users/" + userID}

		return checkAndForward(ctx, deps, toolNameGetUser, req, start)
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// ---------------------------------------------------------------------------
// Group tools
// ---------------------------------------------------------------------------

func toolListGroups(deps Deps) tools.Registration {
	tool := mcp.NewTool(toolNameListGroups,
		mcp.WithDescription("List directory groups with display name, mail, and group types. Follows pagination to return every group."),
		mcp.WithNumber("top",
			mcp.Description("Page size hint for the upstream query (default 100)."),
		),
	)

	handler := func(ctx context.Context, callReq mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		req := graph.Request{
			Endpoint: "/groups",
			QueryParams: map[string]any{
				"$select": "id,displayName,mail,groupTypes",
				"$top":    callReq.GetInt("top", 100),
			},
			AllData: true,
		}

		return checkAndForward(ctx, deps, toolNameListGroups, req, start)
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolListGroupMembers(deps Deps) tools.Registration {
	tool := mcp.NewTool(toolNameListGroupMembers,
		mcp.WithDescription("List the members of a group by group object ID. Follows pagination to return every member."),
		mcp.WithString("group_id",
			mcp.Required(),
			mcp.Description("Group object ID."),
		),
	)

	handler := func(ctx context.Context, callReq mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		groupID := callReq.GetString("group_id", "")
		if groupID == "" {
			return tools.ErrorResult("group_id is required"), nil
		}

		req := graph.Request{
			Endpoint: "/groups/" + groupID + "/members",
			AllData:  true,
		}

		return checkAndForward(ctx, deps, toolNameListGroupMembers, req, start)
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
