package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/bindparty/binding"
	"github.com/delaneyj/bindparty/headless"
	"github.com/delaneyj/bindparty/model"
	"github.com/delaneyj/bindparty/observe"
	bindtable "github.com/delaneyj/bindparty/table"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
)

var (
	ww   = []int{1, 10, 100}
	hh   = []int{1, 10, 100}
	rows = []int{10, 100, 1_000}
)

type summary struct {
	name    string
	updates int
	elapsed time.Duration
	alloc   uint64
}

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure binding propagation and table reconciliation",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Updates per scenario",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	log.Print("Starting binding benchmark, please wait...")
	defer log.Print("Finished binding benchmark")

	var summaries []summary
	s, err := benchmarkPropagate(iters)
	if err != nil {
		return err
	}
	summaries = append(summaries, s...)

	s, err = benchmarkReconcile(iters)
	if err != nil {
		return err
	}
	summaries = append(summaries, s...)

	renderSummary(summaries)
	return nil
}

func newRegistry() *observe.Registry {
	return observe.NewRegistry(observe.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func newLatencyTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendLatency(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRow(table.Row{
		name,
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	})
}

func allocated() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.TotalAlloc
}

// benchmarkPropagate builds w chains of h objects. Each link is a read-only
// binding copying v+1 into the next object, so one source write ripples
// through w*h bindings.
func benchmarkPropagate(iters int) ([]summary, error) {
	tbl := newLatencyTable("Propagation")
	var out []summary

	for _, w := range ww {
		for _, h := range hh {
			rs := newRegistry()
			g := binding.NewGraph(rs)
			src := model.NewObject(rs, map[string]any{"v": 0})

			for i := 0; i < w; i++ {
				prev := src
				for j := 0; j < h; j++ {
					next := model.NewObject(rs, map[string]any{"v": 0})
					_, err := binding.New(g, binding.Target{Set: func(v any) error {
						return next.SetProperty("v", v)
					}}, binding.Expression{
						Subject:    prev,
						ComputedBy: []string{"v"},
						Compute: binding.Expr1(func(v int) int {
							return v + 1
						}),
					})
					if err != nil {
						return nil, err
					}
					prev = next
				}
			}

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			before := allocated()
			wall := time.Now()
			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := src.SetProperty("v", i+1); err != nil {
					return nil, err
				}
				tach.AddTime(time.Since(start))
			}

			name := fmt.Sprintf("propagate: %d * %d", w, h)
			appendLatency(tbl, name, tach)
			out = append(out, summary{
				name:    name,
				updates: iters * w * h,
				elapsed: time.Since(wall),
				alloc:   allocated() - before,
			})
			rs.Close()
		}
	}

	tbl.Render()
	return out, nil
}

// benchmarkReconcile binds a headless table to n people and renames one of
// them per iteration, forcing a full reconciliation each time.
func benchmarkReconcile(iters int) ([]summary, error) {
	tbl := newLatencyTable("Reconciliation")
	var out []summary

	for _, n := range rows {
		rs := newRegistry()
		g := binding.NewGraph(rs)

		people := make([]*model.Object, n)
		items := make([]any, n)
		for i := range people {
			people[i] = model.NewObject(rs, map[string]any{
				"name": fmt.Sprintf("person %d", i),
				"age":  i,
			})
			items[i] = people[i]
		}
		list := model.NewList(rs, items...)

		src, err := binding.Source(g, binding.Expression{Subject: list, Path: model.ItemsProperty})
		if err != nil {
			return nil, err
		}
		widget := headless.NewTable("people")
		if _, err := bindtable.Bind(g, widget, src, []string{"name", "age"}); err != nil {
			return nil, err
		}
		if err := widget.Select(n / 2); err != nil {
			return nil, err
		}

		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		before := allocated()
		wall := time.Now()
		for i := 0; i < iters; i++ {
			p := people[i%n]
			start := time.Now()
			if err := p.SetProperty("age", n+i); err != nil {
				return nil, err
			}
			tach.AddTime(time.Since(start))
		}

		name := fmt.Sprintf("reconcile: %d rows", n)
		appendLatency(tbl, name, tach)
		out = append(out, summary{
			name:    name,
			updates: iters,
			elapsed: time.Since(wall),
			alloc:   allocated() - before,
		})

		widget.Dispose()
		src.Dispose()
		if left := rs.Len(); left != 0 {
			return nil, fmt.Errorf("%s leaked %d observables", name, left)
		}
	}

	tbl.Render()
	return out, nil
}

func renderSummary(summaries []summary) {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"test", "updates", "time", "updateRate", "allocated"})
	for _, s := range summaries {
		rate := float64(s.updates) / (float64(s.elapsed) / float64(time.Second))
		tw.Append([]string{
			s.name,
			humanize.Comma(int64(s.updates)),
			fmt.Sprint(s.elapsed),
			humanize.Comma(int64(rate)) + "/s",
			humanize.Bytes(s.alloc),
		})
	}
	tw.Render()
}
