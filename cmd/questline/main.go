package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avolkhin/questline/engine"
	"github.com/avolkhin/questline/export/dot"
	"github.com/avolkhin/questline/generator"
	"github.com/avolkhin/questline/loader"
	"github.com/avolkhin/questline/parser/quest"
	"github.com/avolkhin/questline/project"
	"github.com/avolkhin/questline/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	cmd := os.Args[1]

	switch cmd {
	case "init":
		if len(os.Args) < 3 {
			fmt.Println("Usage: questline init <project-name>")
			return
		}
		projectName := os.Args[2]
		if err := project.Init(projectName); err != nil {
			fmt.Printf("Error initializing project: %v\n", err)
			return
		}
		fmt.Printf("Project '%s' initialized successfully!\n", projectName)
		fmt.Printf("   cd %s\n", projectName)
		fmt.Printf("   questline play\n")

	case "check":
		cfg := mustConfig()
		reports, err := project.Check(".", cfg)
		if err != nil {
			fmt.Printf("Error checking project: %v\n", err)
			os.Exit(1)
		}
		failed := 0
		for _, r := range reports {
			switch {
			case !r.Valid():
				failed++
				fmt.Printf("FAIL %s\n", r.Path)
				for _, e := range r.Errors {
					fmt.Printf("     error: %s\n", e)
				}
			default:
				fmt.Printf("ok   %s\n", r.Path)
			}
			for _, w := range r.Warnings {
				fmt.Printf("     warning: %s\n", w)
			}
		}
		fmt.Printf("%d file(s) checked, %d failed\n", len(reports), failed)
		if failed > 0 {
			os.Exit(1)
		}

	case "play":
		cfg := mustConfig()
		entry := cfg.Entry
		if len(os.Args) > 2 {
			entry = os.Args[2]
		}
		if err := play(entry); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "paths":
		cfg := mustConfig()
		entry := cfg.Entry
		if len(os.Args) > 2 {
			entry = os.Args[2]
		}
		if err := listPaths(entry, cfg.MaxPaths); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "graph":
		cfg := mustConfig()
		entry := cfg.Entry
		if len(os.Args) > 2 {
			entry = os.Args[2]
		}
		out := ""
		if len(os.Args) > 3 {
			out = os.Args[3]
		}
		if err := renderGraph(entry, out); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "gen":
		if len(os.Args) < 3 {
			fmt.Println("Usage: questline gen <quest|module|node> [args...]")
			return
		}
		subCmd := os.Args[2]
		switch subCmd {
		case "quest":
			if len(os.Args) < 4 {
				fmt.Println("Usage: questline gen quest <QuestName>")
				return
			}
			generator.GenerateQuest(os.Args[3])
		case "module":
			if len(os.Args) < 4 {
				fmt.Println("Usage: questline gen module <ModuleName>")
				return
			}
			generator.GenerateModule(os.Args[3])
		case "node":
			if len(os.Args) < 6 {
				fmt.Println("Usage: questline gen node <file.quest> <node-id> <initial|action|ending>")
				return
			}
			generator.GenerateNode(os.Args[3], os.Args[4], os.Args[5])
		default:
			fmt.Printf("Unknown gen command: %s\n", subCmd)
		}

	case "watch":
		cfg := mustConfig()
		check := func() error {
			reports, err := project.Check(".", cfg)
			if err != nil {
				return err
			}
			for _, r := range reports {
				if !r.Valid() {
					return fmt.Errorf("%s: %s", r.Path, r.Errors[0])
				}
			}
			return nil
		}
		if err := watch.Watch(context.Background(), ".", cfg.Dirs, check); err != nil {
			fmt.Printf("Error watching files: %v\n", err)
		}

	case "version":
		fmt.Println("questline v0.3.0 - branching narrative toolkit")

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		printUsage()
	}
}

func mustConfig() project.Config {
	cfg, err := project.LoadConfig(".")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func loadInterpreter(entry string) (*engine.Interpreter, error) {
	abs, err := filepath.Abs(entry)
	if err != nil {
		return nil, err
	}
	result, err := loader.LoadQuest(abs, project.OSHost{})
	if err != nil {
		return nil, err
	}
	in := engine.NewWithRegistry(result.Program, result.Registry)
	if report := in.Validate(); !report.IsValid {
		return nil, fmt.Errorf("%s does not validate: %s", entry, report.Errors[0])
	}
	return in, nil
}

func play(entry string) error {
	in, err := loadInterpreter(entry)
	if err != nil {
		return err
	}

	info := in.QuestInfo()
	fmt.Printf("=== %s ===\n", info.Name)
	fmt.Printf("Goal: %s\n\n", info.Goal)

	reader := bufio.NewReader(os.Stdin)
	for {
		node, err := in.CurrentNode()
		if err != nil {
			return err
		}
		fmt.Println(node.Describe())

		state := in.State()
		if state.IsComplete {
			fmt.Printf("\n*** %s ***\n", state.EndingTitle)
			fmt.Printf("Path taken: %s\n", strings.Join(state.History, " -> "))
			return nil
		}

		targets := edgeLabels(node)
		for i, label := range targets {
			fmt.Printf("  %d) %s\n", i+1, label)
		}
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		input := strings.TrimSpace(line)
		switch input {
		case "q", "quit":
			return nil
		case "r", "restart":
			in.Reset()
			fmt.Println("(restarted)")
			continue
		}

		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(targets) {
			fmt.Printf("Enter a number between 1 and %d, or q to quit.\n", len(targets))
			continue
		}

		if node.Kind() == quest.KindAction {
			err = in.ExecuteChoice(idx - 1)
		} else {
			err = in.MoveToNode(quest.OutgoingEdges(node)[idx-1])
		}
		if err != nil {
			fmt.Printf("Cannot go there: %v\n", err)
		}
		fmt.Println()
	}
}

// edgeLabels renders a node's outgoing edges for the play prompt. Action
// nodes show their choice text; initial nodes show target ids.
func edgeLabels(node quest.Node) []string {
	if action, ok := node.(*quest.ActionNode); ok {
		labels := make([]string, len(action.Options))
		for i, opt := range action.Options {
			labels[i] = opt.Text
		}
		return labels
	}
	return quest.OutgoingEdges(node)
}

func listPaths(entry string, limit int) error {
	in, err := loadInterpreter(entry)
	if err != nil {
		return err
	}
	paths := in.AllPathsCapped(limit)
	for i, path := range paths {
		fmt.Printf("%d: %s\n", i+1, strings.Join(path, " -> "))
	}
	fmt.Printf("%d path(s) to an ending\n", len(paths))
	if limit > 0 && len(paths) == limit {
		fmt.Printf("(stopped at the configured limit of %d)\n", limit)
	}
	return nil
}

func renderGraph(entry, out string) error {
	abs, err := filepath.Abs(entry)
	if err != nil {
		return err
	}
	result, err := loader.LoadQuest(abs, project.OSHost{})
	if err != nil {
		return err
	}
	if out == "" {
		doc, err := dot.Generate(result.Program)
		if err != nil {
			return err
		}
		fmt.Print(doc)
		return nil
	}
	if err := dot.WriteFile(result.Program, out); err != nil {
		return err
	}
	fmt.Printf("Graph written to %s\n", out)
	return nil
}

func printUsage() {
	fmt.Println(`questline - branching narrative toolkit

USAGE:
    questline <command> [arguments]

COMMANDS:
    init <name>                    Initialize a new questline project
    check                          Validate every .quest file in the project
    play [file]                    Play a quest in the terminal
    paths [file]                   List every route from start to an ending
    graph [file] [out.dot]         Render a quest graph as Graphviz DOT
    gen quest <name>               Generate a quest skeleton
    gen module <name>              Generate a module skeleton
    gen node <file> <id> <type>    Append a node to a module file
    watch                          Revalidate on every file change
    version                        Show version information
    help                           Show this help message

EXAMPLES:
    questline init myquest
    questline check
    questline play main.quest
    questline paths
    questline graph main.quest out.dot
    questline gen module Tavern`)
}
