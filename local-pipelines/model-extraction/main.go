package main

import (
	"context"
	"fmt"
	"log"
	"os"

	arg "github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/privacy/pipeline"
)

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	args := struct {
		Dataset string `arg:"positional,required" help:"per-user ARFF file"`
		Out     string `help:"directory to write weights and deviations to"`
		TopK    int    `help:"number of private and public concepts kept per model"`
		Semfeat bool   `help:"prettify semfeat concept names"`
		Print   bool   `help:"print the deviations to stdout"`
		Models  bool   `help:"also save every model as JSON"`
		Verbose bool
	}{
		Out:     "output",
		TopK:    100,
		Semfeat: true,
	}
	arg.MustParse(&args)

	logger := logging.New("model-extraction", logging.Options{Verbose: args.Verbose})
	defer logger.Sync()

	res, err := pipeline.RunExtraction(context.Background(), pipeline.ExtractionConfig{
		Dataset:    args.Dataset,
		OutDir:     args.Out,
		TopK:       args.TopK,
		Semfeat:    args.Semfeat,
		SaveModels: args.Models,
		Logger:     logger,
	})
	fail(err)

	if args.Print {
		for _, d := range res.Deviations {
			fmt.Println(d)
		}
	}
	if res.Failed != nil {
		logger.Error("some users were skipped", zap.Error(res.Failed))
		logger.Sync()
		os.Exit(1)
	}
}
