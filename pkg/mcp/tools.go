package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func findElementTool() mcp.Tool {
	return mcp.NewTool("find_element",
		mcp.WithDescription("Find a named element in TypeScript/JavaScript source and return its 1-indexed inclusive line range. Returns found=false when the element does not exist."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to search"),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Element kind: function, class, method, property, property_setter, property_and_setter, interface, type_alias, jsx_component, imports_section or properties_section"),
		),
		mcp.WithString("name",
			mcp.Description("Element name (not used for imports_section / properties_section)"),
		),
		mcp.WithString("class_name",
			mcp.Description("Enclosing class for member lookups (method, property, properties_section)"),
		),
	)
}

func listElementsTool() mcp.Tool {
	return mcp.NewTool("list_elements",
		mcp.WithDescription("List all classes, methods or interfaces declared in the given source."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to list from"),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("What to list: classes, methods or interfaces"),
		),
		mcp.WithString("class_name",
			mcp.Description("Restrict a methods listing to one class"),
		),
	)
}

func functionSignatureTool() mcp.Tool {
	return mcp.NewTool("function_signature",
		mcp.WithDescription("Extract the parameter list and return information of a function or class method."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code containing the function"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Function or method name"),
		),
		mcp.WithString("class_name",
			mcp.Description("Enclosing class when the target is a method"),
		),
	)
}

func checkSyntaxTool() mcp.Tool {
	return mcp.NewTool("check_syntax",
		mcp.WithDescription("Check whether source parses as valid TypeScript/JavaScript, and whether this finder would claim it at all."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to check"),
		),
	)
}

func classForMethodTool() mcp.Tool {
	return mcp.NewTool("class_for_method",
		mcp.WithDescription("Reverse lookup: given a method name, return the name of the class that declares it."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to search"),
		),
		mcp.WithString("method_name",
			mcp.Required(),
			mcp.Description("Method name to locate"),
		),
	)
}

func updatePropertyTool() mcp.Tool {
	return mcp.NewTool("update_property",
		mcp.WithDescription("Replace or insert a class property (getter/setter pair) and return the rewritten source."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code containing the class"),
		),
		mcp.WithString("class_name",
			mcp.Required(),
			mcp.Description("Class to update"),
		),
		mcp.WithString("property_name",
			mcp.Required(),
			mcp.Description("Property to replace or insert"),
		),
		mcp.WithString("new_code",
			mcp.Required(),
			mcp.Description("Replacement property code, unindented"),
		),
	)
}

func searchWorkspaceTool() mcp.Tool {
	return mcp.NewTool("search_workspace",
		mcp.WithDescription("Run one element query against every source file in the configured workspace."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Element kind, same values as find_element plus classes/methods/interfaces listings"),
		),
		mcp.WithString("name",
			mcp.Description("Element name"),
		),
		mcp.WithString("class_name",
			mcp.Description("Enclosing class for member lookups"),
		),
	)
}
