// Package strategy describes how per-user evaluation selects training data.
package strategy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/youralert/youralert/golib/errors"
)

// ErrUnknownStrategy is returned by Parse for invalid names or parameters
var ErrUnknownStrategy = errors.Sentinel("unknown strategy")

// Kind is one of the evaluation strategies
type Kind int

const (
	// Generic trains one model on the external generic pool
	Generic Kind = iota
	// Other trains on all other users' examples
	Other
	// User trains on a sample of the user's own examples
	User
	// HybridGeneric mixes weighted user examples into the generic pool
	HybridGeneric
	// HybridOther mixes weighted user examples into the other users' examples
	HybridOther
)

var names = map[Kind]string{
	Generic:       "generic",
	Other:         "other",
	User:          "user",
	HybridGeneric: "hybrid-generic",
	HybridOther:   "hybrid-other",
}

func (k Kind) String() string {
	return names[k]
}

// Strategy is a parsed strategy with its parameters. NumUserExamples and
// UserWeight are zero for strategies that do not use them.
type Strategy struct {
	Kind            Kind
	NumUserExamples int
	UserWeight      int
}

// Parse reads "generic", "other", "user <m>", "hybrid-generic <w> <m>" or
// "hybrid-other <w> <m>". The short forms "hybrid-g" and "hybrid-o" are accepted too.
func Parse(s string) (Strategy, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Strategy{}, errors.Wrapf(ErrUnknownStrategy, "empty strategy")
	}

	kind, err := ParseKind(fields[0])
	if err != nil {
		return Strategy{}, err
	}
	params := kind.NumParams()
	if len(fields)-1 != params {
		return Strategy{}, errors.Wrapf(ErrUnknownStrategy, "%q: %s takes %d parameters", s, kind, params)
	}

	values := make([]int, params)
	for i, field := range fields[1:] {
		v, err := strconv.Atoi(field)
		if err != nil || v < 1 {
			return Strategy{}, errors.Wrapf(ErrUnknownStrategy, "%q: parameter %q must be a positive integer", s, field)
		}
		values[i] = v
	}

	st := Strategy{Kind: kind}
	switch kind {
	case User:
		st.NumUserExamples, st.UserWeight = values[0], 1
	case HybridGeneric, HybridOther:
		st.UserWeight, st.NumUserExamples = values[0], values[1]
	}
	return st, nil
}

var kinds = map[string]Kind{
	"generic":        Generic,
	"other":          Other,
	"user":           User,
	"hybrid-g":       HybridGeneric,
	"hybrid-generic": HybridGeneric,
	"hybrid-o":       HybridOther,
	"hybrid-other":   HybridOther,
}

// ParseKind resolves a strategy name or its short alias, case-insensitively
func ParseKind(name string) (Kind, error) {
	kind, ok := kinds[strings.ToLower(name)]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownStrategy, "%q", name)
	}
	return kind, nil
}

// NumParams is the number of integer parameters following the strategy name
func (k Kind) NumParams() int {
	switch k {
	case User:
		return 1
	case HybridGeneric, HybridOther:
		return 2
	default:
		return 0
	}
}

// MustParse is Parse that panics on error
func MustParse(s string) Strategy {
	st, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return st
}

// Name is the strategy name without parameters
func (s Strategy) Name() string {
	return s.Kind.String()
}

// Label is the name written to result files, where hybrid strategies go by
// their short forms "hybrid-g" and "hybrid-o"
func (s Strategy) Label() string {
	switch s.Kind {
	case HybridGeneric:
		return "hybrid-g"
	case HybridOther:
		return "hybrid-o"
	default:
		return s.Name()
	}
}

// CustomName is the label, plus the user weight for hybrid strategies
func (s Strategy) CustomName() string {
	if s.Hybrid() {
		return fmt.Sprintf("%s w=%d", s.Label(), s.UserWeight)
	}
	return s.Label()
}

// Key is the label with its parameters, as used in result file names
func (s Strategy) Key() string {
	return s.format(s.Label())
}

// String formats the strategy so that Parse(s.String()) == s
func (s Strategy) String() string {
	return s.format(s.Name())
}

func (s Strategy) format(name string) string {
	switch s.Kind {
	case User:
		return fmt.Sprintf("%s %d", name, s.NumUserExamples)
	case HybridGeneric, HybridOther:
		return fmt.Sprintf("%s %d %d", name, s.UserWeight, s.NumUserExamples)
	default:
		return name
	}
}

// Hybrid reports whether user examples are mixed into a pool
func (s Strategy) Hybrid() bool {
	return s.Kind == HybridGeneric || s.Kind == HybridOther
}

// CrossValidated reports whether the user's own examples are used for training,
// which requires cross-validation over that user's data
func (s Strategy) CrossValidated() bool {
	return s.Kind == User || s.Hybrid()
}

// NeedsGenericPool reports whether the external generic pool is required
func (s Strategy) NeedsGenericPool() bool {
	return s.Kind == Generic || s.Kind == HybridGeneric
}
