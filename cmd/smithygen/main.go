// Command smithygen generates Rust source declarations and HTTP request
// binding code from a Smithy JSON AST model.
package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/jackos/smithygen"
	"github.com/jackos/smithygen/model"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate Rust sources from a model."`
	Check   CheckCmd   `cmd:"" help:"Load and validate a model without generating files."`

	Verbose bool `help:"Enable debug logging." short:"v"`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(*CLI) error {
	fmt.Println(Version())
	return nil
}

type GenCmd struct {
	Out    string `arg:"" help:"Output directory for generated files."`
	Model  string `help:"Path to the Smithy JSON AST model." short:"m"`
	Config string `help:"YAML settings file; flags override its values." short:"c"`
	Mode   string `help:"Generation mode: client or server." enum:"client,server," default:""`
}

func (c *GenCmd) Run(cli *CLI) error {
	cfg := &smithygen.Config{}
	if c.Config != "" {
		loaded, err := smithygen.LoadConfig(c.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.Mode != "" {
		cfg.Mode = c.Mode
	}
	cfg.OutDir = c.Out

	g := &smithygen.Generator{Config: cfg, Logger: newLogger(cli.Verbose)}
	result, err := g.Run(context.Background())
	if err != nil {
		return err
	}
	for _, f := range result.Files {
		fmt.Printf("wrote %s\n", f)
	}
	return nil
}

type CheckCmd struct {
	Model string `arg:"" help:"Path to the Smithy JSON AST model."`
}

func (c *CheckCmd) Run(*CLI) error {
	m, err := model.LoadFile(c.Model)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Model OK: %d shapes, %d operations\n", len(m.Shapes()), len(m.Operations()))
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("smithygen"),
		kong.Description("Smithy model to Rust source generator."),
		kong.UsageOnError(),
	)
	err := ctx.Run(cli)
	ctx.FatalIfErrorf(err)
}
