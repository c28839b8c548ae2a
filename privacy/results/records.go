// Package results writes evaluation results, feature weights and deviation reports.
package results

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/strategy"
)

// Average names the pooled row of a result file
const Average = "average"

// Names of the generic and per-user datasets in generic evaluation records
const (
	GenericSet  = "picalert"
	PersonalSet = "youralert"
)

// Record is one line of a personalization result file
type Record struct {
	FeatureType  string  `csv:"feature_type"`
	Classifier   string  `csv:"classifier"`
	Method       string  `csv:"method"`
	MethodCustom string  `csv:"method_custom"`
	UserWeight   int     `csv:"user_weight"`
	MaxGeneric   int     `csv:"max_generic"`
	NumUser      int     `csv:"num_user"`
	Weight       int     `csv:"weight"`
	User         string  `csv:"user"`
	AUC          float64 `csv:"auc"`
}

// Records converts a result to one record per successful user, then the pooled record
func Records(featureType string, res *evaluate.Result) []Record {
	base := Record{
		FeatureType:  featureType,
		Classifier:   res.Classifier,
		Method:       res.Strategy.Label(),
		MethodCustom: res.Strategy.CustomName(),
		UserWeight:   res.Strategy.UserWeight,
		MaxGeneric:   res.Options.MaxGenericExamples,
		NumUser:      res.Strategy.NumUserExamples,
		Weight:       res.Strategy.UserWeight,
	}

	var records []Record
	for _, u := range res.Users {
		if u.Err != nil {
			continue
		}
		r := base
		r.User, r.AUC = u.User, u.AUC
		records = append(records, r)
	}
	r := base
	r.User, r.AUC = Average, res.Pooled
	return append(records, r)
}

// FileName is the name of the result file for a personalization run
func FileName(featureType string, st strategy.Strategy, maxGeneric int, classifier string) string {
	return fmt.Sprintf("results-personal_%s_%s_%d_%s.txt", featureType, st.Key(), maxGeneric, classifier)
}

// WriteRecords writes records as comma separated lines without a header
func WriteRecords(w io.Writer, records []Record) error {
	return gocsv.MarshalWithoutHeaders(&records, w)
}

// GenericRecord is one line of a generic evaluation result file
type GenericRecord struct {
	FeatureType string  `csv:"feature_type"`
	NumTrain    int     `csv:"num_train"`
	Classifier  string  `csv:"classifier"`
	Requested   int     `csv:"requested"`
	Scope       string  `csv:"scope"`
	Set         string  `csv:"set"`
	AUC         float64 `csv:"auc"`
}

// GenericRecords converts a generic evaluation: the held-out generic split, then
// the whole per-user dataset and each user when one was evaluated. requested is
// the training size asked for, which is also how the file is named.
func GenericRecords(featureType string, requested int, res *evaluate.GenericResult) []GenericRecord {
	base := GenericRecord{
		FeatureType: featureType,
		NumTrain:    requested,
		Classifier:  res.Classifier,
		Requested:   requested,
	}
	rec := func(scope, set string, auc float64) GenericRecord {
		r := base
		r.Scope, r.Set, r.AUC = scope, set, auc
		return r
	}

	records := []GenericRecord{rec("all", GenericSet, res.Test)}
	if !res.Personal {
		return records
	}
	records = append(records, rec("all", PersonalSet, res.All))
	for _, u := range res.Users {
		records = append(records, rec(u.User, PersonalSet, u.AUC))
	}
	return records
}

// GenericFileName is the name of the result file for a generic evaluation
func GenericFileName(requested int, featureType, classifier string) string {
	return fmt.Sprintf("results-generic_%d_%s_%s.txt", requested, featureType, classifier)
}

// WriteGenericRecords writes records as comma separated lines without a header
func WriteGenericRecords(w io.Writer, records []GenericRecord) error {
	return gocsv.MarshalWithoutHeaders(&records, w)
}
