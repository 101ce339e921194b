package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/xmain"

	"github.com/wirekit/wirekit/lib/log"
	"github.com/wirekit/wirekit/wirefocus"
	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wirelayouts"
	"github.com/wirekit/wirekit/wirelayouts/wiredotlayout"
	"github.com/wirekit/wirekit/wirelayouts/wireelklayout"
	"github.com/wirekit/wirekit/wirelib"
	"github.com/wirekit/wirekit/wiretarget"
)

func main() {
	xmain.Main(run)
}

func run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.WithDefault(ctx)

	layoutFlag := ms.Opts.String("WIREKIT_LAYOUT", "layout", "l", "dot", "the coarse placement solver (dot or elk)")
	elkJSFlag := ms.Opts.String("WIREKIT_ELK_JS", "elk-js", "", "", "path to the elk.js bundle, used with --layout elk")
	optsFlag := ms.Opts.String("WIREKIT_OPTS", "opts", "", "", "path to a TOML file tuning the geometry passes")
	directionFlag := ms.Opts.String("", "direction", "", "", "override the graph's flow direction (right, left, down, up)")
	focusFlag := ms.Opts.String("", "focus", "f", "", "lay out only the neighborhood of this node")
	focusDownFlag, err := ms.Opts.Int64("", "focus-down", "", 1, "hops to follow along edge direction from the focus node")
	if err != nil {
		return err
	}
	focusUpFlag, err := ms.Opts.Int64("", "focus-up", "", 1, "hops to follow against edge direction from the focus node")
	if err != nil {
		return err
	}
	timeoutFlag, err := ms.Opts.Int64("WIREKIT_TIMEOUT", "timeout", "", 120, "the maximum number of seconds a layout runs before timing out")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		ms.Opts.Flags.PrintDefaults()
		return nil
	}

	if *debugFlag {
		ms.Env.Setenv("DEBUG", "1")
	}

	inputPath := "-"
	outputPath := "-"
	switch len(ms.Opts.Flags.Args()) {
	case 0:
	case 1:
		inputPath = ms.Opts.Flags.Arg(0)
	case 2:
		inputPath = ms.Opts.Flags.Arg(0)
		outputPath = ms.Opts.Flags.Arg(1)
	default:
		return xmain.UsageErrorf("too many arguments passed")
	}

	var solver wirelayouts.Solver
	switch *layoutFlag {
	case "dot":
		solver = &wiredotlayout.Solver{}
	case "elk":
		solver = &wireelklayout.Solver{JSPath: *elkJSFlag}
	default:
		return xmain.UsageErrorf("unknown layout %q, expected dot or elk", *layoutFlag)
	}

	opts := &wirelib.Opts{Validator: wirelib.RefValidator{}}
	if *optsFlag != "" {
		layoutOpts, err := wirelayouts.LoadOpts(*optsFlag)
		if err != nil {
			return err
		}
		opts.Layout = layoutOpts
	}

	input, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}
	g, err := wiregraph.Unmarshal(input)
	if err != nil {
		return err
	}

	switch wiregraph.Direction(*directionFlag) {
	case wiregraph.DirectionRight, wiregraph.DirectionLeft, wiregraph.DirectionDown, wiregraph.DirectionUp:
		g.Direction = wiregraph.Direction(*directionFlag)
	case "":
	default:
		return xmain.UsageErrorf("unknown direction %q", *directionFlag)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(*timeoutFlag)*time.Second)
	defer cancel()

	var diagram *wiretarget.Diagram
	if *focusFlag != "" {
		fopts := wirefocus.Options{
			Downstream:      *focusDownFlag > 0,
			DownstreamDepth: int(*focusDownFlag),
			Upstream:        *focusUpFlag > 0,
			UpstreamDepth:   int(*focusUpFlag),
		}
		d, err := wirelib.FocusLayout(ctx, g, *focusFlag, fopts, solver, opts)
		if err != nil {
			return err
		}
		diagram = d
	} else {
		d, err := wirelib.Layout(ctx, g, solver, opts)
		if err != nil {
			return err
		}
		diagram = d
	}

	out, err := diagram.Bytes()
	if err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	err = ms.WritePath(outputPath, out)
	if err != nil {
		return err
	}
	ms.Log.Success.Printf("successfully laid out %s to %s", inputPath, outputPath)
	return nil
}
