package main

import (
	"fmt"

	yaml "gopkg.in/yaml.v2"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/fileutil"
	"github.com/youralert/youralert/privacy/strategy"
)

// Sweep lists every run of the published experiments
type Sweep struct {
	Datasets     string            `yaml:"datasets"`
	Out          string            `yaml:"out"`
	Workers      int               `yaml:"workers"`
	Generic      GenericSweep      `yaml:"generic"`
	Personalized PersonalizedSweep `yaml:"personalized"`
	Insights     InsightsSweep     `yaml:"insights"`
}

// GenericSweep trains on growing slices of the generic pool
type GenericSweep struct {
	Classifier   string   `yaml:"classifier"`
	FeatureTypes []string `yaml:"feature_types"`
	NumTrain     []int    `yaml:"num_train"`
}

// PersonalizedSweep runs every strategy with every user example count and hybrid weight
type PersonalizedSweep struct {
	Classifier      string   `yaml:"classifier"`
	FeatureTypes    []string `yaml:"feature_types"`
	Methods         []string `yaml:"methods"`
	NumUserExamples []int    `yaml:"num_user_examples"`
	HybridWeights   []int    `yaml:"hybrid_weights"`
	MaxGeneric      int      `yaml:"max_generic"`
}

// InsightsSweep extracts the models of every user
type InsightsSweep struct {
	Dataset string `yaml:"dataset"`
	Out     string `yaml:"out"`
	TopK    int    `yaml:"top_k"`
	Semfeat bool   `yaml:"semfeat"`
}

// DefaultSweep reproduces the experiments of the paper. The user models are
// trained with liblinear rather than liblinear-tuned: the cost cannot be tuned
// on 5 or 10 examples, and every strategy uses the same classifier.
var DefaultSweep = Sweep{
	Datasets: "datasets",
	Out:      ".",
	Workers:  1,
	Generic: GenericSweep{
		Classifier:   "liblinear-tuned",
		FeatureTypes: []string{"vlad", "cnn", "semfeat", "edch", "bow"},
		NumTrain:     []int{50, 100, 500, 1000, 5000, -1},
	},
	Personalized: PersonalizedSweep{
		Classifier:      "liblinear",
		FeatureTypes:    []string{"vlad", "cnn", "semfeat"},
		Methods:         []string{"generic", "other", "user", "hybrid-g", "hybrid-o"},
		NumUserExamples: []int{5, 10, 15, 20, 25, 30, 35},
		HybridWeights:   []int{1, 10, 100, 1000},
		MaxGeneric:      5000,
	},
	Insights: InsightsSweep{
		Dataset: "datasets/youralert/semfeat.arff",
		Out:     "output",
		TopK:    100,
		Semfeat: true,
	},
}

// LoadSweep reads a YAML sweep file. Keys missing from the file keep their default.
func LoadSweep(path string) (Sweep, error) {
	sweep := DefaultSweep
	if path == "" {
		return sweep, nil
	}
	buf, err := fileutil.ReadFile(path)
	if err != nil {
		return Sweep{}, errors.Wrapf(err, "error reading sweep %s", path)
	}
	if err := yaml.UnmarshalStrict(buf, &sweep); err != nil {
		return Sweep{}, errors.Wrapf(err, "error parsing sweep %s", path)
	}
	return sweep, nil
}

// GenericRun is one generic evaluation
type GenericRun struct {
	FeatureType string
	NumTrain    int
}

// Runs lists the generic evaluations, training size first
func (g GenericSweep) Runs() []GenericRun {
	var runs []GenericRun
	for _, n := range g.NumTrain {
		for _, ft := range g.FeatureTypes {
			runs = append(runs, GenericRun{FeatureType: ft, NumTrain: n})
		}
	}
	return runs
}

// PersonalRun is one strategy evaluated on one feature type
type PersonalRun struct {
	FeatureType string
	Strategy    string
}

// Runs lists the strategy runs per feature type in method order. Strategies
// trained on user examples are repeated for every example count and, for the
// hybrids, every weight.
func (p PersonalizedSweep) Runs() ([]PersonalRun, error) {
	var runs []PersonalRun
	for _, ft := range p.FeatureTypes {
		for _, method := range p.Methods {
			kind, err := strategy.ParseKind(method)
			if err != nil {
				return nil, err
			}
			switch kind.NumParams() {
			case 0:
				runs = append(runs, PersonalRun{ft, method})
			case 1:
				for _, m := range p.NumUserExamples {
					runs = append(runs, PersonalRun{ft, fmt.Sprintf("%s %d", method, m)})
				}
			default:
				for _, m := range p.NumUserExamples {
					for _, w := range p.HybridWeights {
						runs = append(runs, PersonalRun{ft, fmt.Sprintf("%s %d %d", method, w, m)})
					}
				}
			}
		}
	}
	return runs, nil
}
