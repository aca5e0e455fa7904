package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pb "github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/sprite-retile/pkg/retile"
	"github.com/PhantomInTheWire/sprite-retile/pkg/storage"
)

var version = "dev"

const stagePublish retile.Stage = "publish"

type flags struct {
	opts     retile.Options
	filter   string
	progress bool
	verbose  bool
	store    storage.Config
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "retile",
		Short: "Re-tile a sprite sheet from one grid layout to another",
		Long: `retile slices a sprite sheet into the cells of its grid, resizes every
cell to fit the output grid and writes the cells, in row-major order,
onto a new sheet. The output format follows the output file extension.`,
		Example:       "  retile -s hero.png -g 4x2 -o hero-strip.png -p 8x1 -v 256x32",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// retile.Options reads zero as "imaging's default"; on the
			// command line every value must be a real quality.
			if q := f.opts.JPEGQuality; q < 1 || q > 100 {
				return fmt.Errorf("invalid --jpeg-quality %d: must be between 1 and 100", q)
			}
			return run(cmd.Context(), &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.opts.Spritesheet, "spritesheet", "s", "", "input sprite sheet")
	fl.StringVarP(&f.opts.SpritesheetGrid, "spritesheet-grid", "g", "", `input grid as "<cols>x<rows>"`)
	fl.StringVarP(&f.opts.Output, "output", "o", "", "output sprite sheet")
	fl.StringVarP(&f.opts.OutputGrid, "output-grid", "p", "", `output grid as "<cols>x<rows>"`)
	fl.StringVarP(&f.opts.OutputSize, "output-size", "v", "", `output size as "<width>x<height>" (default: input size)`)
	fl.StringVar(&f.filter, "filter", "gaussian", "resampling filter: "+strings.Join(retile.FilterNames(), ", "))
	fl.IntVar(&f.opts.JPEGQuality, "jpeg-quality", 95, "JPEG output quality (1-100)")
	fl.BoolVar(&f.progress, "progress", false, "show a progress bar while compositing")
	fl.BoolVar(&f.verbose, "verbose", false, "verbose logging")

	fl.StringVar(&f.store.Bucket, "bucket", "", "publish the output to this S3/MinIO bucket")
	fl.StringVar(&f.store.Prefix, "prefix", "", "object key prefix for --bucket")
	fl.StringVar(&f.store.Endpoint, "endpoint", "", "S3-compatible endpoint URL, e.g. http://localhost:9000")
	fl.StringVar(&f.store.Region, "region", "us-east-1", "bucket region")
	fl.StringVar(&f.store.AccessKey, "access-key", "", "static access key (default: AWS credential chain)")
	fl.StringVar(&f.store.SecretKey, "secret-key", "", "static secret key")

	for _, name := range []string{"spritesheet", "spritesheet-grid", "output", "output-grid"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(ctx context.Context, f *flags) error {
	if f.verbose {
		log.SetLevel(log.DebugLevel)
	}

	filter, err := retile.FilterByName(f.filter)
	if err != nil {
		return err
	}
	f.opts.Filter = filter

	var bar *pb.ProgressBar
	if f.progress {
		f.opts.OnCell = func(placed, total int) {
			if bar == nil {
				bar = pb.StartNew(total)
			}
			bar.SetCurrent(int64(placed))
		}
	}

	res, err := retile.Run(f.opts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d of %d cells (%s -> %s) to %s\n",
		res.Placed, res.Sliced, res.InputGrid, res.OutputGrid, f.opts.Output)

	if !f.store.Enabled() {
		return nil
	}
	key, err := storage.Publish(ctx, f.store, f.opts.Output)
	if err != nil {
		return &retile.StageError{Stage: stagePublish, Err: err}
	}
	log.WithFields(log.Fields{"bucket": f.store.Bucket, "key": key}).Info("Published spritesheet")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
