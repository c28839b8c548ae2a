package decisiontree

import (
	"encoding/json"
	"io"
)

// Load reads a tree written by Save
func Load(r io.Reader) (*DecisionTree, error) {
	var tree DecisionTree
	rd := json.NewDecoder(r)
	err := rd.Decode(&tree)
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

// Save writes the tree as JSON
func (t *DecisionTree) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(t)
}
