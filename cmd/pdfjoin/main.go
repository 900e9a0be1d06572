package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/handiism/pdf-batch-joiner/internal/batch"
	"github.com/handiism/pdf-batch-joiner/internal/config"
	"github.com/handiism/pdf-batch-joiner/internal/dates"
	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
	"github.com/handiism/pdf-batch-joiner/internal/model"
	"github.com/handiism/pdf-batch-joiner/internal/ocr"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Command line flags
	var (
		dirFlag         = flag.String("dir", "", "Base directory containing the folders (overrides config)")
		foldersFlag     = flag.String("folders", "", "Folders to merge, comma-separated, relative to -dir")
		allFlag         = flag.Bool("all", false, "Merge every subfolder of the base directory")
		qualityFlag     = flag.String("quality", "", "Image quality: high, medium, low, ultra-low, original")
		deleteFlag      = flag.Bool("delete", false, "Delete source PDFs after a verified merge")
		oldestFirstFlag = flag.Bool("oldest-first", false, "Order pages oldest document first")
		ocrFlag         = flag.Bool("ocr", false, "Add a text layer with OCRmyPDF before merging")
		langFlag        = flag.String("lang", "", "OCR language (tesseract code, e.g. deu, eng)")
		configFlag      = flag.String("config", "", "Path to config file (default: user config dir)")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Show what would be merged without writing anything")
		checkOCRFlag    = flag.Bool("check-ocr", false, "Check the OCR installation and exit")
	)

	flag.Parse()

	if *checkOCRFlag {
		os.Exit(checkOCR())
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags that were given explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			settings.BasePath = *dirFlag
		case "quality":
			settings.Quality = *qualityFlag
		case "delete":
			settings.DeleteSource = *deleteFlag
		case "oldest-first":
			settings.NewestFirst = !*oldestFirstFlag
		case "ocr":
			settings.EnableOCR = *ocrFlag
		case "lang":
			settings.OCRLanguage = *langFlag
		}
	})
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	folders := selectFolders(settings.BasePath, *foldersFlag, *allFlag)
	if len(folders) == 0 {
		fmt.Println("PDF Batch Joiner - Merge the PDFs of each folder into one document")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  pdfjoin -dir <base> -folders <a,b,c> [options]")
		fmt.Println("  pdfjoin -dir <base> -all [options]")
		fmt.Println("  pdfjoin -dir <base> [options] <folder>...")
		fmt.Println()
		fmt.Println("For interactive mode, use: pdfjoin-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("📄 PDF Batch Joiner")
	fmt.Println(strings.Repeat("━", 40))
	fmt.Println()

	if *dryRunFlag {
		dryRun(settings, folders)
		return
	}

	os.Exit(run(settings, folders, *verboseFlag))
}

// selectFolders returns the folders named on the command line, or every
// subfolder of base with -all.
func selectFolders(base, list string, all bool) []string {
	if all {
		_, folders, err := batch.ListFolders(base)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing folders: %v\n", err)
			os.Exit(1)
		}
		return folders
	}

	var folders []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			folders = append(folders, f)
		}
	}
	return append(folders, flag.Args()...)
}

func run(settings *config.Settings, folders []string, verbose bool) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := batch.NewManager(settings)
	events, err := manager.Start(ctx, batch.Request{
		Folders:      folders,
		BasePath:     settings.BasePath,
		DeleteSource: settings.DeleteSource,
		Quality:      settings.QualityPreset(),
		EnableOCR:    settings.EnableOCR,
		OCRLanguage:  settings.OCRLanguage,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting batch: %v\n", err)
		return 1
	}

	var (
		g       errgroup.Group
		done    = make(chan struct{})
		stopped bool
	)

	g.Go(func() error {
		defer close(done)
		for ev := range events {
			printEvent(ev, verbose)
		}
		return nil
	})

	// Handle interrupts: the first one stops after the current folder,
	// the second one exits immediately.
	g.Go(func() error {
		sigCh := make(chan os.Signal, 2)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-done:
				return nil
			case <-sigCh:
				if stopped {
					fmt.Println("\nInterrupted again, exiting.")
					os.Exit(130)
				}
				stopped = true
				fmt.Println("\nInterrupted, stopping after the current folder (Ctrl-C again to quit)...")
				manager.Stop()
			}
		}
	})

	g.Wait()

	snap := manager.Progress()
	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("✨ Complete! Processed %d/%d files\n", snap.Current, snap.Total)
	if snap.InputBytes > 0 {
		fmt.Printf("   %s -> %s, %s\n", ioutils.FormatBytes(snap.InputBytes), ioutils.FormatBytes(snap.OutputBytes),
			ioutils.SizeDelta(snap.InputBytes, snap.OutputBytes))
	}

	if stopped {
		return 130
	}
	return 0
}

func printEvent(ev batch.Event, verbose bool) {
	if ev.Kind == batch.EventProgress {
		if !verbose || ev.Total == 0 {
			return
		}
		line := fmt.Sprintf("   [%3.0f%%] %s | ETA %s", ev.Percent(), ev.Message, batch.FormatETA(ev.ETA))
		if ev.ETA != batch.UnknownETA {
			line += " (done at " + ev.Finish.Format("15:04:05") + ")"
		}
		fmt.Println(line)
		return
	}

	if ev.Level == batch.LevelVerbose && !verbose {
		return
	}

	prefix := ""
	switch ev.Level {
	case batch.LevelError:
		prefix = "❌ "
	case batch.LevelWarning:
		prefix = "⚠️  "
	case batch.LevelSuccess:
		prefix = "✅ "
	case batch.LevelInfo:
		prefix = "ℹ️  "
	default:
		prefix = "   "
	}

	fmt.Println(prefix + ev.Message)
}

// dryRun prints the merge order and output name of every folder.
func dryRun(settings *config.Settings, folders []string) {
	base, err := batch.ValidatePath(settings.BasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, name := range folders {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, name)
		}

		files, artifacts := batch.Discover(path, func(p string, err error) {
			fmt.Printf("❌ Error reading %s: %v\n", p, err)
		})

		created, err := ioutils.FolderTime(path)
		if err != nil {
			created = time.Now()
		}
		folder := model.NewFolder(base, path, created)

		fmt.Printf("📁 %s -> %s\n", folder.Label, folder.OutputName())
		if artifacts > 0 {
			fmt.Printf("   (%d previous output(s) ignored)\n", artifacts)
		}

		byPath := make(map[string]model.PDFFile, len(files))
		sources := make([]string, len(files))
		for i, f := range files {
			byPath[f.Path] = f
			sources[i] = f.Path
		}
		for i, p := range dates.Sort(sources, settings.NewestFirst) {
			f := byPath[p]
			date := "no date"
			if f.HasDate {
				date = f.Date.Format("2006-01-02")
			}
			fmt.Printf("   %2d. %s (%s, %s)\n", i+1, f.Name(), date, ioutils.FormatBytes(f.Size))
		}
		fmt.Println()
	}

	fmt.Println("[Dry run - nothing written]")
}

func checkOCR() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inst, err := ocr.CheckInstallation(ctx)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	fmt.Printf("✅ OCRmyPDF installed: %s (%s)\n", inst.Version, inst.OCRmyPDF)
	fmt.Printf("✅ Tesseract: %s\n", inst.Tesseract)
	fmt.Printf("ℹ️  Languages: %s\n", strings.Join(ocr.InstalledLanguages(ctx), ", "))
	return 0
}
