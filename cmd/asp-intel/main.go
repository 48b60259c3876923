// Command asp-intel provides symbol intelligence for Classic ASP /
// VBScript workspaces: an LSP server for editors plus batch subcommands
// for scripting the same engine from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/urfave/cli/v2"

	"asp-intel/internal/config"
	"asp-intel/internal/engine"
	"asp-intel/internal/workspace"
)

const version = "0.3.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "asp-intel",
		Usage:   "symbol intelligence for Classic ASP / VBScript workspaces",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file `PATH` (default: <root>/" + config.FileName + ")",
			},
			&cli.IntFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log verbosity (overrides config)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			scanCommand(),
			symbolsCommand(),
			definitionCommand(),
			referencesCommand(),
			includesCommand(),
		},
	}
}

// loadConfig layers defaults, the config file and CLI flags, then
// configures logging once for the process.
func loadConfig(c *cli.Context, root string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromRoot(root)
	}
	if err != nil {
		return nil, err
	}
	if c.IsSet("verbose") {
		cfg.Verbosity = c.Int("verbose")
	}
	commonlog.Configure(cfg.Verbosity, nil)
	return cfg, nil
}

// buildEngine scans root and indexes everything found.
func buildEngine(root string, cfg *config.Config) (*engine.Engine, *workspace.Scanner, []workspace.File, error) {
	scanner := workspace.NewScanner(root, cfg)
	eng := engine.New(cfg.VirtualRootFor(scanner.Root()))
	files, err := scanner.Scan()
	if err != nil {
		return nil, nil, nil, err
	}
	for _, f := range files {
		eng.UpdateDocument(f.URI, f.Content)
	}
	return eng, scanner, files, nil
}
