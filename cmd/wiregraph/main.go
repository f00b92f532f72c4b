package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wiregraph/wiregraph/internal/composition"
	"github.com/wiregraph/wiregraph/internal/eventbus"
	"github.com/wiregraph/wiregraph/internal/federation"
	"github.com/wiregraph/wiregraph/internal/otel"
	"github.com/wiregraph/wiregraph/internal/querygraph"
	"github.com/wiregraph/wiregraph/internal/runid"
)

const rootUsage = `wiregraph — federated GraphQL composition checker

USAGE:
  wiregraph <command> [flags]

COMMANDS:
  validate         Check that every supergraph API query is satisfiable
  compose          Print the merged supergraph API SDL
  help             Show help for any command
`

const validateUsage = `validate FLAGS:
  -subgraph <Name=path>  Subgraph SDL file keyed by subgraph name. Repeatable
  -config <file>         YAML manifest listing subgraphs (name: path). Flags
                         and manifest entries are combined
  -hints                 Print hints in addition to errors (default: true)
  -otel.endpoint <addr>  OTLP collector endpoint
  -otel.service <name>   OpenTelemetry service name (default: wiregraph)
  (Exits non-zero when composition errors are found)
`

const composeUsage = `compose FLAGS:
  -subgraph <Name=path>  Subgraph SDL file keyed by subgraph name. Repeatable
  -config <file>         YAML manifest listing subgraphs (name: path)
  -out <file>            Write merged SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("wiregraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "validate":
		return cmdValidate(cmdArgs)
	case "compose":
		return cmdCompose(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "validate":
		fmt.Print(validateUsage)
	case "compose":
		fmt.Print(composeUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// subgraphFlag accumulates Name=path mappings in flag order.
type subgraphFlag struct {
	names []string
	paths map[string]string
}

func (f *subgraphFlag) String() string { return "" }

func (f *subgraphFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid subgraph %q", v)
	}
	name := strings.TrimSpace(parts[0])
	path := strings.TrimSpace(parts[1])
	if name == "" || path == "" {
		return fmt.Errorf("invalid subgraph %q", v)
	}
	if f.paths == nil {
		f.paths = map[string]string{}
	}
	if _, ok := f.paths[name]; ok {
		return fmt.Errorf("duplicate subgraph %q", name)
	}
	f.names = append(f.names, name)
	f.paths[name] = path
	return nil
}

// manifest is the YAML config file shape: a list of named SDL files.
type manifest struct {
	Subgraphs []struct {
		Name string `yaml:"name"`
		Path string `yaml:"path"`
	} `yaml:"subgraphs"`
}

func (f *subgraphFlag) loadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for _, entry := range m.Subgraphs {
		p := entry.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if err := f.Set(entry.Name + "=" + p); err != nil {
			return err
		}
	}
	return nil
}

func (f *subgraphFlag) parse() ([]*federation.Subgraph, error) {
	if len(f.names) == 0 {
		return nil, fmt.Errorf("at least one -subgraph or -config entry is required")
	}
	var subgraphs []*federation.Subgraph
	for _, name := range f.names {
		data, err := os.ReadFile(f.paths[name])
		if err != nil {
			return nil, err
		}
		sub, err := federation.ParseSubgraph(name, string(data))
		if err != nil {
			return nil, fmt.Errorf("parse subgraph %q: %w", name, err)
		}
		subgraphs = append(subgraphs, sub)
	}
	return subgraphs, nil
}

func cmdValidate(args []string) error {
	var subs subgraphFlag
	configPath := ""
	printHints := true
	otelEndpoint := ""
	otelService := "wiregraph"

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&subs, "subgraph", "Subgraph SDL file keyed by subgraph name")
	fs.StringVar(&configPath, "config", configPath, "YAML manifest listing subgraphs")
	fs.BoolVar(&printHints, "hints", printHints, "Print hints in addition to errors")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, validateUsage)
		return err
	}
	if configPath != "" {
		if err := subs.loadManifest(configPath); err != nil {
			return err
		}
	}

	subgraphs, err := subs.parse()
	if err != nil {
		fmt.Fprint(os.Stderr, validateUsage)
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	supergraph, err := federation.MergeAPISchema(subgraphs)
	if err != nil {
		return fmt.Errorf("merge subgraphs: %w", err)
	}
	graph, err := querygraph.Build(supergraph, subgraphs)
	if err != nil {
		return fmt.Errorf("build query graph: %w", err)
	}

	ctx, _ := runid.NewContext(context.Background())
	var errs []*composition.Error
	var hints []*composition.Hint
	if err := composition.ValidateSatisfiability(ctx, graph, composition.Options{}, &errs, &hints); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "error[%s]: %s\n", e.Code, e.Message)
	}
	if printHints {
		for _, h := range hints {
			fmt.Fprintf(os.Stderr, "hint[%s]: %s\n", h.Code, h.Message)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("composition failed with %d error(s)", len(errs))
	}
	fmt.Printf("supergraph is satisfiable: %d subgraph(s), %d hint(s)\n", len(subgraphs), len(hints))
	return nil
}

func cmdCompose(args []string) error {
	var subs subgraphFlag
	configPath := ""
	outFile := ""

	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&subs, "subgraph", "Subgraph SDL file keyed by subgraph name")
	fs.StringVar(&configPath, "config", configPath, "YAML manifest listing subgraphs")
	fs.StringVar(&outFile, "out", outFile, "Write merged SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, composeUsage)
		return err
	}
	if configPath != "" {
		if err := subs.loadManifest(configPath); err != nil {
			return err
		}
	}

	subgraphs, err := subs.parse()
	if err != nil {
		fmt.Fprint(os.Stderr, composeUsage)
		return err
	}
	sdl, err := federation.MergeAPISDL(subgraphs)
	if err != nil {
		return fmt.Errorf("merge subgraphs: %w", err)
	}
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
