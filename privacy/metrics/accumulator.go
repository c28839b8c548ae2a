package metrics

// Accumulator collects predictions per user and over all users
type Accumulator struct {
	users  []string
	byUser map[string][]Prediction
	pooled []Prediction
}

// NewAccumulator creates an empty Accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		byUser: make(map[string][]Prediction),
	}
}

// Add records predictions made for user's examples
func (a *Accumulator) Add(user string, preds ...Prediction) {
	if _, ok := a.byUser[user]; !ok {
		a.users = append(a.users, user)
		a.byUser[user] = nil
	}
	a.byUser[user] = append(a.byUser[user], preds...)
	a.pooled = append(a.pooled, preds...)
}

// Users returns the users in the order they were first added
func (a *Accumulator) Users() []string {
	return append([]string(nil), a.users...)
}

// User returns the predictions recorded for user
func (a *Accumulator) User(user string) []Prediction {
	return a.byUser[user]
}

// Pooled returns every prediction recorded, in order
func (a *Accumulator) Pooled() []Prediction {
	return a.pooled
}

// UserAUC is the AUC over user's predictions
func (a *Accumulator) UserAUC(user string) float64 {
	return AUC(a.byUser[user])
}

// PooledAUC is the AUC over the union of all users' predictions
func (a *Accumulator) PooledAUC() float64 {
	return AUC(a.pooled)
}
