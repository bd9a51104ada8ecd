package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/codefind/pkg/finder"
	"github.com/gnana997/codefind/pkg/workspace"
)

// rangeResult is the wire shape for a single line-range answer.
type rangeResult struct {
	Found     bool `json:"found"`
	StartLine int  `json:"start_line,omitempty"`
	EndLine   int  `json:"end_line,omitempty"`
}

// elementResult is the wire shape for one listed element.
type elementResult struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// signatureResult is the wire shape for function_signature.
type signatureResult struct {
	Found             bool              `json:"found"`
	Parameters        []parameterResult `json:"parameters,omitempty"`
	ReturnType        string            `json:"return_type,omitempty"`
	ReturnExpressions []string          `json:"return_expressions,omitempty"`
}

type parameterResult struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Default  string `json:"default,omitempty"`
}

func toJSONResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleFindElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := req.GetString("name", "")
	className := req.GetString("class_name", "")

	r, err := s.findRange(code, kind, name, className)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return toJSONResult(rangeResult{Found: r.Found(), StartLine: r.Start, EndLine: r.End})
}

// findRange dispatches one find_element kind to the finder.
func (s *Server) findRange(code, kind, name, className string) (finder.LineRange, error) {
	switch kind {
	case "function":
		return s.finder.FindFunction(code, name)
	case "class":
		return s.finder.FindClass(code, name)
	case "method":
		return s.finder.FindMethod(code, className, name)
	case "property":
		return s.finder.FindProperty(code, className, name)
	case "property_setter":
		return s.finder.FindPropertySetter(code, className, name)
	case "property_and_setter":
		return s.finder.FindPropertyAndSetter(code, className, name)
	case "interface":
		return s.finder.FindInterface(code, name)
	case "type_alias":
		return s.finder.FindTypeAlias(code, name)
	case "jsx_component":
		return s.finder.FindJSXComponent(code, name)
	case "imports_section":
		return s.finder.FindImportsSection(code)
	case "properties_section":
		return s.finder.FindPropertiesSection(code, className)
	default:
		return finder.NotFound, fmt.Errorf("unknown element kind: %s", kind)
	}
}

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	className := req.GetString("class_name", "")

	var elements []finder.Element
	switch kind {
	case "classes":
		elements, err = s.finder.ClassesFromCode(code)
	case "methods":
		if className != "" {
			elements, err = s.finder.MethodsFromClass(code, className)
		} else {
			elements, err = s.finder.MethodsFromCode(code)
		}
	case "interfaces":
		elements, err = s.finder.InterfacesFromCode(code)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown listing kind: %s", kind)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]elementResult, 0, len(elements))
	for _, el := range elements {
		out = append(out, elementResult{
			Name:      el.Name,
			Kind:      el.Kind,
			StartLine: el.Range.Start,
			EndLine:   el.Range.End,
		})
	}
	return toJSONResult(out)
}

func (s *Server) handleFunctionSignature(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	className := req.GetString("class_name", "")

	params, err := s.finder.FunctionParameters(code, name, className)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if params == nil {
		return toJSONResult(signatureResult{Found: false})
	}

	info, err := s.finder.FunctionReturnInfo(code, name, className)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := signatureResult{Found: true, Parameters: make([]parameterResult, 0, len(params))}
	for _, p := range params {
		out.Parameters = append(out.Parameters, parameterResult{
			Name:     p.Name,
			Type:     p.Type,
			Optional: p.Optional,
			Default:  p.Default,
		})
	}
	if info != nil {
		out.ReturnType = info.ReturnType
		out.ReturnExpressions = info.ReturnExpressions
	}
	return toJSONResult(out)
}

func (s *Server) handleCheckSyntax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return toJSONResult(map[string]bool{
		"valid":      s.finder.IsCorrectSyntax(code),
		"can_handle": s.finder.CanHandle(code),
	})
}

func (s *Server) handleClassForMethod(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	methodName, err := req.RequireString("method_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	className, err := s.finder.FindClassForMethod(methodName, code)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return toJSONResult(map[string]any{
		"found":      className != "",
		"class_name": className,
	})
}

func (s *Server) handleUpdateProperty(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	className, err := req.RequireString("class_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	propertyName, err := req.RequireString("property_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newCode, err := req.RequireString("new_code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updated, err := s.finder.ClassWithUpdatedProperty(code, className, propertyName, newCode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(updated), nil
}

func (s *Server) handleSearchWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.workspace == nil {
		return mcp.NewToolResultError("no workspace configured; start the server with a workspace root"), nil
	}

	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := workspace.Query{
		Kind:      kind,
		Name:      req.GetString("name", ""),
		ClassName: req.GetString("class_name", ""),
	}

	matches, stats, err := s.workspace.Search(ctx, query, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type matchResult struct {
		FilePath  string `json:"file_path"`
		Name      string `json:"name"`
		Kind      string `json:"kind"`
		StartLine int    `json:"start_line"`
		EndLine   int    `json:"end_line"`
	}
	out := struct {
		Matches       []matchResult `json:"matches"`
		FilesSearched int           `json:"files_searched"`
		FilesFailed   int           `json:"files_failed"`
	}{
		Matches:       make([]matchResult, 0, len(matches)),
		FilesSearched: stats.FilesSearched,
		FilesFailed:   stats.FilesFailed,
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, matchResult{
			FilePath:  m.FilePath,
			Name:      m.Name,
			Kind:      m.Kind,
			StartLine: m.Range.Start,
			EndLine:   m.Range.End,
		})
	}
	return toJSONResult(out)
}
