package lgcli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/lifegraph/lgdoc"
	"oss.terrastruct.com/lifegraph/lglib"
	"oss.terrastruct.com/lifegraph/lgrenderers/lgsvg"
	"oss.terrastruct.com/lifegraph/lib/fonts"
	"oss.terrastruct.com/lifegraph/lib/go2"
	"oss.terrastruct.com/lifegraph/lib/log"
	"oss.terrastruct.com/lifegraph/lib/textmeasure"
	"oss.terrastruct.com/lifegraph/lib/version"
	"oss.terrastruct.com/lifegraph/lib/xbrowser"
	"oss.terrastruct.com/lifegraph/lib/xmain"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.Writer(ctx, ms.Stderr)
	watchFlag, err := ms.Opts.Bool("LIFEGRAPH_WATCH", "watch", "w", false, "watch the poster file for changes and render it again on every change.")
	if err != nil {
		return err
	}
	openFlag, err := ms.Opts.Bool("LIFEGRAPH_OPEN", "open", "o", false, "open the rendered poster in a browser once it is written.")
	if err != nil {
		return err
	}
	browserFlag := ms.Opts.String("BROWSER", "browser", "", "", "browser executable that --open uses.")
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	cellSizeFlag, err := ms.Opts.Float64("LIFEGRAPH_CELL_SIZE", "cell-size", "", textmeasure.DEFAULT_CELL_SIZE, "pixels per week cell. Labels are measured and drawn at this scale")
	if err != nil {
		return err
	}
	padFlag, err := ms.Opts.Int64("LIFEGRAPH_PAD", "pad", "", lgsvg.DEFAULT_PADDING, "pixels padded around the rendered poster")
	if err != nil {
		return err
	}
	fontFlag := ms.Opts.String("LIFEGRAPH_FONT", "font", "", string(fonts.Go), fmt.Sprintf("font family labels are set in (%s)", fontFamilyList()))
	embedFontsFlag, err := ms.Opts.Bool("LIFEGRAPH_EMBED_FONTS", "embed-fonts", "", false, "embed the font faces in SVG output so it renders the same everywhere")
	if err != nil {
		return err
	}
	noXMLTagFlag, err := ms.Opts.Bool("LIFEGRAPH_NO_XML_TAG", "no-xml-tag", "", false, "omit XML tag (<?xml ...?>) from output SVG files. Useful when generating SVGs for direct HTML embedding")
	if err != nil {
		return err
	}
	omitVersionFlag, err := ms.Opts.Bool("OMIT_VERSION", "omit-version", "", false, "omit lifegraph version from generated image")
	if err != nil {
		return err
	}
	timeoutFlag, err := ms.Opts.Int64("LIFEGRAPH_TIMEOUT", "timeout", "", 120, "the maximum number of seconds a single render may take")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if len(ms.Opts.Flags.Args()) > 0 && ms.Opts.Flags.Arg(0) == "version" {
		if len(ms.Opts.Flags.Args()) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}
	if *browserFlag != "" {
		ms.Env.Setenv("BROWSER", *browserFlag)
	}

	if len(ms.Opts.Flags.Args()) == 0 {
		if *versionFlag {
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
		help(ms)
		return nil
	} else if len(ms.Opts.Flags.Args()) >= 3 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	inputPath := ms.Opts.Flags.Arg(0)
	var outputPath string
	if len(ms.Opts.Flags.Args()) >= 2 {
		outputPath = ms.Opts.Flags.Arg(1)
	} else if inputPath == "-" {
		outputPath = "-"
	} else {
		outputPath = renameExt(inputPath, ".svg")
	}
	inputPath = ms.AbsPath(inputPath)
	outputPath = ms.AbsPath(outputPath)

	inputFormat, err := getInputFormat(inputPath)
	if err != nil {
		return xmain.UsageErrorf("%v", err)
	}
	fontFamily, err := getFontFamily(*fontFlag)
	if err != nil {
		return xmain.UsageErrorf("%v", err)
	}
	if *cellSizeFlag <= 0 {
		return xmain.UsageErrorf("--cell-size must be positive, got %v", *cellSizeFlag)
	}
	if *openFlag && outputPath == "-" {
		return xmain.UsageErrorf("-o[pen] cannot be combined with writing output to stdout")
	}

	// Measure once; atlases are cached across renders.
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return err
	}

	opts := compileOpts{
		inputPath:   inputPath,
		inputFormat: inputFormat,
		outputPath:  outputPath,
		compile: &lglib.CompileOptions{
			Ruler:    ruler,
			CellSize: *cellSizeFlag,
			Font:     fontFamily,
		},
		render: lgsvg.RenderOpts{
			Pad:         padFlag,
			CellSize:    cellSizeFlag,
			Font:        fontFamily,
			EmbedFonts:  embedFontsFlag,
			NoXMLTag:    noXMLTagFlag,
			OmitVersion: omitVersionFlag,
		},
		timeout: time.Duration(*timeoutFlag) * time.Second,
	}

	if *watchFlag {
		if inputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with reading input from stdin")
		}
		w, err := newWatcher(ctx, ms, watcherOpts{
			compileOpts: opts,
			open:        *openFlag,
		})
		if err != nil {
			return err
		}
		return w.run()
	}

	err = compile(ctx, ms, opts)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", ms.HumanPath(inputPath), err)
	}
	if *openFlag {
		openOutput(ctx, ms, outputPath)
	}
	return nil
}

type compileOpts struct {
	inputPath   string
	inputFormat lgdoc.Format
	outputPath  string
	compile     *lglib.CompileOptions
	render      lgsvg.RenderOpts
	timeout     time.Duration
}

func compile(ctx context.Context, ms *xmain.State, opts compileOpts) error {
	ctx, cancel := log.WithTimeout(ctx, opts.timeout)
	defer cancel()

	start := time.Now()
	input, err := ms.ReadPath(opts.inputPath)
	if err != nil {
		return err
	}
	poster, err := lglib.CompileSource(ctx, opts.inputFormat, input, opts.compile)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	renderOpts := opts.render
	out, err := lglib.Export(ctx, poster, lglib.OutputFormatFromPath(opts.outputPath), &renderOpts)
	if err != nil {
		return err
	}
	err = ms.WritePath(opts.outputPath, out)
	if err != nil {
		return err
	}

	dur := time.Since(start)
	log.Debug(ctx, "compiled poster",
		slog.F("annotations", len(poster.Annotations)),
		slog.F("spans", len(poster.Spans)),
		slog.F("duration", dur),
	)
	if opts.outputPath != "-" {
		ms.Log.Info.Printf("successfully compiled %s to %s in %s", ms.HumanPath(opts.inputPath), ms.HumanPath(opts.outputPath), dur)
	}
	return nil
}

// openOutput only warns on failure: the output was written either way.
func openOutput(ctx context.Context, ms *xmain.State, outputPath string) {
	url := xbrowser.FileURL(outputPath)
	err := xbrowser.OpenURL(ctx, ms.Env, url)
	if err != nil {
		ms.Log.Warn.Printf("failed to open browser to %v: %v", url, err)
	}
}

// getInputFormat reads stdin as YAML.
func getInputFormat(inputPath string) (lgdoc.Format, error) {
	if inputPath == "-" {
		return lgdoc.YAML, nil
	}
	return lgdoc.FormatFromPath(inputPath)
}

func getFontFamily(name string) (fonts.FontFamily, error) {
	for _, f := range fonts.FontFamilies {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown font %q, expected one of %s", name, fontFamilyList())
}

func fontFamilyList() string {
	var names []string
	for _, f := range fonts.FontFamilies {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func renameExt(fp string, newExt string) string {
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	} else {
		return strings.TrimSuffix(fp, ext) + newExt
	}
}
