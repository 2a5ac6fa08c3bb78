package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/delaneyj/bindparty/binding"
	"github.com/delaneyj/bindparty/convert"
	"github.com/delaneyj/bindparty/headless"
	"github.com/delaneyj/bindparty/model"
	"github.com/delaneyj/bindparty/observe"
	"github.com/delaneyj/bindparty/table"
	"github.com/urfave/cli/v3"
)

const (
	verboseKey  = "verbose"
	maxDepthKey = "max-depth"
)

func main() {
	cmd := &cli.Command{
		Name:  "bindemo",
		Usage: "Bind a people table and an age field, then mutate the model",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log at debug level",
			},
			&cli.UintFlag{
				Name:  maxDepthKey,
				Usage: "Maximum nested notification depth",
				Value: observe.DefaultMaxDepth,
			},
		},
		Action: demo,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func demo(ctx context.Context, cmd *cli.Command) error {
	level := slog.LevelInfo
	if cmd.Bool(verboseKey) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rs := observe.NewRegistry(
		observe.WithLogger(logger),
		observe.WithMaxDepth(int(cmd.Uint(maxDepthKey))),
	)
	defer rs.Close()
	g := binding.NewGraph(rs)

	person := func(name string, age int, disk int64) *model.Object {
		return model.NewObject(rs, map[string]any{"name": name, "age": age, "disk": disk})
	}
	ada := person("Ada", 36, 82_854_982)
	grace := person("Grace", 85, 1_500_000_000)
	people := model.NewList(rs, ada, grace)
	app := model.NewObject(rs, map[string]any{"people": people})

	src, err := binding.Source(g, binding.Expression{Subject: app, Path: "people"})
	if err != nil {
		return err
	}
	widget := headless.NewTable("people")
	if _, err := table.Bind(g, widget, src, []string{"name", "age", "disk"}); err != nil {
		return err
	}
	defer widget.Dispose()

	age := headless.NewField(nil)
	if _, err := headless.BindField(g, age, binding.Expression{
		Direction:  binding.Bidirectional,
		Subject:    ada,
		Path:       "age",
		Converters: convert.Int(),
	}); err != nil {
		return err
	}

	disk := headless.NewField(nil)
	if _, err := headless.BindField(g, disk, binding.Expression{
		Subject:    grace,
		Path:       "disk",
		Converters: convert.Bytes(),
	}); err != nil {
		return err
	}

	show := func(step string) {
		fmt.Printf("== %s\n%s\nada.age field: %v, grace.disk field: %v\n\n", step, widget.Render(), age.Value(), disk.Value())
	}
	show("initial")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"select Grace", func() error { return widget.Select(1) }},
		{"append Linus", func() error { return people.Append(person("Linus", 54, 4_096)) }},
		{"type 37 into the age field", func() error { return age.Type("37") }},
		{"sort by name descending", func() error { widget.SortBy(0, true); return nil }},
		{"Grace fills her disk", func() error { return grace.SetProperty("disk", int64(2_000_000_000)) }},
		{"remove Grace", func() error { return people.Remove(grace) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		show(s.name)
	}

	logger.Info("demo finished", "observables", rs.Len(), "bindings", g.Len())
	return nil
}
