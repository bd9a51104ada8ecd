package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gnana997/codefind/pkg/finder"
	mcpserver "github.com/gnana997/codefind/pkg/mcp"
	"github.com/gnana997/codefind/pkg/mcplog"
	"github.com/gnana997/codefind/pkg/parser"
	"github.com/gnana997/codefind/pkg/parser/queries"
	"github.com/gnana997/codefind/pkg/util"
	"github.com/gnana997/codefind/pkg/workspace"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "find":
		err = runFind(args)
	case "list":
		err = runList(args)
	case "search":
		err = runSearch(args)
	case "serve":
		err = runServe(args)
	case "version":
		fmt.Printf("codefind %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: codefind <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  find <kind> <name> --file <path> [--class <name>]")
	fmt.Println("             Find an element and print its line range")
	fmt.Println("  list <kind> --file <path> [--class <name>]")
	fmt.Println("             List classes, methods or interfaces in a file")
	fmt.Println("  search <kind> <name> [--root <dir>] [--class <name>]")
	fmt.Println("             Search every source file under a workspace root")
	fmt.Println("  serve [--root <dir>] [--log <path>]")
	fmt.Println("             Start the MCP server on stdin/stdout")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("With --file - the source is read from stdin.")
}

// newFinder wires the parser and query managers behind a Finder. The
// returned cleanup releases both.
func newFinder() (*finder.Finder, func(), error) {
	logger := util.NewLogger(util.DefaultLoggerConfig())
	pm := parser.NewManager(logger)
	qm := queries.NewManager(pm, logger)
	f := finder.NewFinder(pm, qm, logger)
	cleanup := func() {
		qm.Close()
		pm.Close()
	}
	return f, cleanup, nil
}

// flagValue extracts "--name value" from args, returning the remaining
// positional arguments.
func flagValue(args []string, name string) (string, []string) {
	var rest []string
	value := ""
	for i := 0; i < len(args); i++ {
		if args[i] == "--"+name && i+1 < len(args) {
			value = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return value, rest
}

// readSource loads the file given by --file, or stdin when the path is
// "-".
func readSource(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("missing --file (use --file - for stdin)")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func runFind(args []string) error {
	file, args := flagValue(args, "file")
	className, args := flagValue(args, "class")
	if len(args) < 2 {
		return fmt.Errorf("usage: codefind find <kind> <name> --file <path>")
	}
	kind, name := args[0], args[1]

	source, err := readSource(file)
	if err != nil {
		return err
	}

	f, cleanup, err := newFinder()
	if err != nil {
		return err
	}
	defer cleanup()

	var r finder.LineRange
	switch kind {
	case "function":
		r, err = f.FindFunction(source, name)
	case "class":
		r, err = f.FindClass(source, name)
	case "method":
		r, err = f.FindMethod(source, className, name)
	case "property":
		r, err = f.FindProperty(source, className, name)
	case "property_setter":
		r, err = f.FindPropertySetter(source, className, name)
	case "property_and_setter":
		r, err = f.FindPropertyAndSetter(source, className, name)
	case "interface":
		r, err = f.FindInterface(source, name)
	case "type_alias":
		r, err = f.FindTypeAlias(source, name)
	case "jsx_component":
		r, err = f.FindJSXComponent(source, name)
	default:
		return fmt.Errorf("unknown kind: %s", kind)
	}
	if err != nil {
		return err
	}

	if !r.Found() {
		fmt.Printf("%s %q not found\n", kind, name)
		return nil
	}
	fmt.Printf("%s %q: lines %d-%d\n", kind, name, r.Start, r.End)
	fmt.Println(finder.ExtractRange(source, r))
	return nil
}

func runList(args []string) error {
	file, args := flagValue(args, "file")
	className, args := flagValue(args, "class")
	if len(args) < 1 {
		return fmt.Errorf("usage: codefind list <kind> --file <path>")
	}
	kind := args[0]

	source, err := readSource(file)
	if err != nil {
		return err
	}

	f, cleanup, err := newFinder()
	if err != nil {
		return err
	}
	defer cleanup()

	var elements []finder.Element
	switch kind {
	case "classes":
		elements, err = f.ClassesFromCode(source)
	case "methods":
		if className != "" {
			elements, err = f.MethodsFromClass(source, className)
		} else {
			elements, err = f.MethodsFromCode(source)
		}
	case "interfaces":
		elements, err = f.InterfacesFromCode(source)
	default:
		return fmt.Errorf("unknown kind: %s (expected classes, methods or interfaces)", kind)
	}
	if err != nil {
		return err
	}

	for _, el := range elements {
		fmt.Printf("%-10s %-30s %d-%d\n", el.Kind, el.Name, el.Range.Start, el.Range.End)
	}
	return nil
}

func runSearch(args []string) error {
	rootFlag, args := flagValue(args, "root")
	className, args := flagValue(args, "class")
	if len(args) < 2 {
		return fmt.Errorf("usage: codefind search <kind> <name> [--root <dir>]")
	}
	kind, name := args[0], args[1]

	root := resolveRoot(rootFlag)
	if root == "" {
		root = "."
	}

	f, cleanup, err := newFinder()
	if err != nil {
		return err
	}
	defer cleanup()

	ws, err := workspace.New(root, f, workspace.DefaultConfig(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	matches, stats, err := ws.Search(context.Background(), workspace.Query{
		Kind:      kind,
		Name:      name,
		ClassName: className,
	}, nil)
	if err != nil {
		return err
	}

	for _, m := range matches {
		fmt.Printf("%s:%d-%d  %s %s\n", m.FilePath, m.Range.Start, m.Range.End, m.Kind, m.Name)
	}
	fmt.Fprintf(os.Stderr, "searched %d files, %d failed, %d matches\n",
		stats.FilesSearched, stats.FilesFailed, len(matches))

	if len(stats.Errors) > 0 {
		b, _ := json.Marshal(stats.Errors)
		fmt.Fprintf(os.Stderr, "errors: %s\n", b)
	}
	return nil
}

func runServe(args []string) error {
	rootFlag, args := flagValue(args, "root")
	logFlag, _ := flagValue(args, "log")

	f, cleanup, err := newFinder()
	if err != nil {
		return err
	}
	defer cleanup()

	var ws *workspace.Workspace
	var watcher *workspace.Watcher
	if root := resolveRoot(rootFlag); root != "" {
		ws, err = workspace.New(root, f, workspace.DefaultConfig(), nil)
		if err != nil {
			return fmt.Errorf("create workspace: %w", err)
		}
		defer ws.Close()

		watcher, err = workspace.NewWatcher(ws, workspace.DefaultWatchOptions(), nil)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Stop()
	}

	var toolLog *mcplog.Logger
	if path := resolveLogPath(logFlag); path != "" {
		toolLog, err = mcplog.NewLogger(path)
		if err != nil {
			return fmt.Errorf("open tool log: %w", err)
		}
		defer toolLog.Close()
	}

	srv := mcpserver.NewServer(f, ws, toolLog)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
