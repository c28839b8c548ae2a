package results

import (
	"fmt"
	"io"
	"math"

	"github.com/gocarina/gocsv"

	"github.com/youralert/youralert/golib/fileutil"
	"github.com/youralert/youralert/privacy/deviation"
	"github.com/youralert/youralert/privacy/introspect"
)

// WeightRow is one line of a weights file
type WeightRow struct {
	Concept string  `csv:"concept"`
	Weight  float64 `csv:"weight"`
}

// WriteWeights writes the absolute value of each weight, rounded to 4 decimals, under a concept,weight header
func WriteWeights(w io.Writer, fws []introspect.FeatureWeight) error {
	rows := make([]WeightRow, 0, len(fws))
	for _, fw := range fws {
		rows = append(rows, WeightRow{
			Concept: fw.Feature,
			Weight:  introspect.Round(math.Abs(fw.Weight), 4),
		})
	}
	return gocsv.Marshal(&rows, w)
}

// WeightFiles returns the paths of an entity's private and public weight files under dir
func WeightFiles(dir, entity string) (string, string) {
	return Path(dir, entity+"-weights-private.txt"), Path(dir, entity+"-weights-public.txt")
}

// ModelFile returns the path of an entity's serialized model under dir
func ModelFile(dir, entity string) string {
	return Path(dir, entity+"-model.json")
}

// Path places name under dir, which may be a local directory or an s3:// prefix
func Path(dir, name string) string {
	return fileutil.Join(dir, name)
}

// DeviationsFile is the name of the deviation report
const DeviationsFile = "deviations.txt"

// WriteDeviations writes the deviation report for the top k concepts
func WriteDeviations(w io.Writer, k int, deviations []deviation.Deviation) error {
	if _, err := fmt.Fprintf(w, "\n===Interesting Deviations (considering top %d private and public concepts) ===\n", k); err != nil {
		return err
	}
	for _, d := range deviations {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
