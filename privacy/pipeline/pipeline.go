// Package pipeline runs the evaluation and model extraction jobs end to end:
// it loads datasets, runs the harness and writes the result files.
package pipeline

import (
	"io"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/fileutil"
)

// Subdirectories of the datasets root holding one ARFF file per feature type
const (
	PersonalDir = "youralert"
	GenericDir  = "picalert"
)

// DatasetPath returns the path of the ARFF file for featureType under root/dir
func DatasetPath(root, dir, featureType string) string {
	return fileutil.Join(root, dir, featureType+".arff")
}

// writeFile creates path and hands it to write, closing it on every path
func writeFile(path string, write func(w io.Writer) error) (err error) {
	w, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	defer errors.Defer(&err, w.Close)

	if err := write(w); err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}
	return nil
}
