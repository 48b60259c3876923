package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"asp-intel/internal/engine"
	"asp-intel/internal/fileuri"
	"asp-intel/internal/server"
	"asp-intel/internal/textpos"
	"asp-intel/internal/vbs"
	"asp-intel/internal/workspace"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the language server on stdio",
		Action: func(c *cli.Context) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			cfg, err := loadConfig(c, wd)
			if err != nil {
				return err
			}
			return server.New(cfg, version).RunStdio()
		},
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "index a workspace and print a per-file summary",
		ArgsUsage: "<root>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "watch", Usage: "keep running and re-index on change"},
		},
		Action: func(c *cli.Context) error {
			root := c.Args().First()
			if root == "" {
				root = "."
			}
			cfg, err := loadConfig(c, root)
			if err != nil {
				return err
			}
			eng, scanner, files, err := buildEngine(root, cfg)
			if err != nil {
				return err
			}

			cycles := 0
			for _, f := range files {
				info := eng.Includes(f.URI)
				outline := eng.Outline(f.URI)
				fmt.Printf("%-8s %s  symbols=%d includes=%d\n",
					f.Kind, relPath(scanner.Root(), f.Path), countSymbols(outline), len(info.Direct))
				if info.HasCycle {
					cycles++
					fmt.Printf("         cycle reachable from %s\n", relPath(scanner.Root(), f.Path))
				}
			}
			fmt.Printf("indexed %d files, %d symbols, %d with cycles\n",
				len(files), len(eng.WorkspaceSymbols("")), cycles)

			if !c.Bool("watch") {
				return nil
			}
			return watch(eng, scanner)
		},
	}
}

func watch(eng *engine.Engine, scanner *workspace.Scanner) error {
	watcher, err := workspace.NewWatcher(scanner)
	if err != nil {
		return err
	}
	defer watcher.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		watcher.Close()
	}()

	fmt.Println("watching for changes (ctrl-c to stop)")
	watcher.Run(
		func(f workspace.File) {
			affected := eng.UpdateDocument(f.URI, f.Content)
			if len(affected) > 0 {
				fmt.Printf("reindexed %s (%d affected)\n", f.Path, len(affected))
			}
		},
		func(path string) {
			eng.RemoveDocument(fileuri.FromPath(path))
			fmt.Printf("removed %s\n", path)
		},
	)
	return nil
}

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "print the outline of one document",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("usage: symbols <file>")
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			root := filepath.Dir(abs)
			cfg, err := loadConfig(c, root)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				return err
			}

			eng := engine.New(cfg.VirtualRootFor(root))
			uri := fileuri.FromPath(abs)
			eng.UpdateDocument(uri, strings.ToValidUTF8(string(data), "�"))
			printOutline(eng.Outline(uri), 0)
			return nil
		},
	}
}

func printOutline(symbols []vbs.Symbol, depth int) {
	for _, s := range symbols {
		fmt.Printf("%s%-8s %s  [%d:%d-%d:%d]\n",
			strings.Repeat("  ", depth), s.Kind, s.Name,
			s.Range.Start.Line+1, s.Range.Start.Character+1,
			s.Range.End.Line+1, s.Range.End.Character+1)
		printOutline(s.Children, depth+1)
	}
}

func definitionCommand() *cli.Command {
	return &cli.Command{
		Name:      "definition",
		Usage:     "resolve the symbol at a position (line and column are 1-based)",
		ArgsUsage: "<root> <file> <line> <col>",
		Action: func(c *cli.Context) error {
			root, uri, pos, err := positionArgs(c)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c, root)
			if err != nil {
				return err
			}
			eng, scanner, _, err := buildEngine(root, cfg)
			if err != nil {
				return err
			}

			defs := eng.Definitions(uri, pos)
			if len(defs) == 0 {
				fmt.Println("no definition found")
				content, _ := eng.DocumentContent(uri)
				if word := engine.WordAt(content, pos); word != "" {
					if hints := eng.Suggestions(word, 3); len(hints) > 0 {
						fmt.Printf("did you mean: %s\n", strings.Join(hints, ", "))
					}
				}
				return nil
			}
			for _, def := range defs {
				fmt.Printf("%s:%d:%d  %s (%s)\n",
					uriPath(scanner.Root(), def.URI), def.StartLine+1, def.StartCharacter+1,
					def.Name, def.Kind)
			}
			return nil
		},
	}
}

func referencesCommand() *cli.Command {
	return &cli.Command{
		Name:      "references",
		Usage:     "list references to the symbol at a position (line and column are 1-based)",
		ArgsUsage: "<root> <file> <line> <col>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-declaration", Usage: "also list the definition"},
		},
		Action: func(c *cli.Context) error {
			root, uri, pos, err := positionArgs(c)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c, root)
			if err != nil {
				return err
			}
			eng, scanner, _, err := buildEngine(root, cfg)
			if err != nil {
				return err
			}

			refs := eng.References(uri, pos, c.Bool("include-declaration"))
			if len(refs) == 0 {
				fmt.Println("no references found")
				return nil
			}
			for _, ref := range refs {
				fmt.Printf("%s:%d:%d\n",
					uriPath(scanner.Root(), ref.URI), ref.Range.Start.Line+1, ref.Range.Start.Character+1)
			}
			return nil
		},
	}
}

func includesCommand() *cli.Command {
	return &cli.Command{
		Name:      "includes",
		Usage:     "show the include relationships of one document",
		ArgsUsage: "<root> <file>",
		Action: func(c *cli.Context) error {
			root := c.Args().Get(0)
			file := c.Args().Get(1)
			if root == "" || file == "" {
				return fmt.Errorf("usage: includes <root> <file>")
			}
			cfg, err := loadConfig(c, root)
			if err != nil {
				return err
			}
			eng, scanner, _, err := buildEngine(root, cfg)
			if err != nil {
				return err
			}

			abs, err := filepath.Abs(file)
			if err != nil {
				return err
			}
			info := eng.Includes(fileuri.FromPath(abs))

			printURIList("direct includes", scanner.Root(), info.Direct)
			printURIList("transitive includes", scanner.Root(), info.Transitive)
			printURIList("included by", scanner.Root(), info.Includers)
			for _, d := range info.Directives {
				if !d.Valid {
					fmt.Printf("invalid directive line %d: %s=%q (%s)\n",
						d.Range.Start.Line+1, d.Type, d.RawPath, d.ErrorMessage)
				}
			}
			if info.HasCycle {
				fmt.Println("warning: include cycle reachable from this file")
			}
			return nil
		},
	}
}

func printURIList(label, root string, uris []string) {
	fmt.Printf("%s (%d):\n", label, len(uris))
	for _, uri := range uris {
		fmt.Printf("  %s\n", uriPath(root, uri))
	}
}

// positionArgs parses the shared <root> <file> <line> <col> argument
// shape, converting the 1-based position to internal 0-based.
func positionArgs(c *cli.Context) (root, uri string, pos textpos.Position, err error) {
	if c.Args().Len() < 4 {
		return "", "", pos, fmt.Errorf("usage: %s <root> <file> <line> <col>", c.Command.Name)
	}
	root = c.Args().Get(0)
	abs, err := filepath.Abs(c.Args().Get(1))
	if err != nil {
		return "", "", pos, err
	}
	pos, err = parseLineCol(c.Args().Get(2), c.Args().Get(3))
	if err != nil {
		return "", "", pos, err
	}
	return root, fileuri.FromPath(abs), pos, nil
}

func parseLineCol(lineArg, colArg string) (textpos.Position, error) {
	line, err := strconv.Atoi(lineArg)
	if err != nil || line < 1 {
		return textpos.Position{}, fmt.Errorf("invalid line %q", lineArg)
	}
	col, err := strconv.Atoi(colArg)
	if err != nil || col < 1 {
		return textpos.Position{}, fmt.Errorf("invalid column %q", colArg)
	}
	return textpos.Position{Line: line - 1, Character: col - 1}, nil
}

func countSymbols(symbols []vbs.Symbol) int {
	n := 0
	for _, s := range symbols {
		if s.Kind == vbs.KindFile {
			continue
		}
		n += 1 + countSymbols(s.Children)
	}
	return n
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func uriPath(root, uri string) string {
	path, err := fileuri.ToPath(uri)
	if err != nil {
		return uri
	}
	return relPath(root, path)
}
