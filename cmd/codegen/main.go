package main

import (
	"context"
	"go/format"
	"log"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/bindparty/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	genericParamCountKey = "count"
	outputKey            = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate typed expression adapters for bindings",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  genericParamCountKey,
				Usage: "Number of generic parameters to generate",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outputKey,
				Usage: "File to write",
				Value: "expr_gen.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for expressions started !")
	defer func() {
		log.Printf("Codegen for expressions finished in %v", time.Since(start))
	}()

	genericParamCount := cmd.Uint(genericParamCountKey)
	out := cmd.String(outputKey)
	log.Printf("Generating %d adapters into %s", genericParamCount, out)

	contents := strings.TrimLeft(templates.ExprGen(int(genericParamCount)), "\n")
	formatted, err := format.Source([]byte(contents))
	if err != nil {
		return err
	}
	return os.WriteFile(out, formatted, 0644)
}
