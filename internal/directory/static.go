// Package directory implements the reviewer role-capability table as
// configuration data: a YAML file mapping reviewer ids to the roles they may
// review under. The wider user system owns the real directory; this is the
// subsystem's view of it.
package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Static struct {
	roles map[string]map[string]struct{}
}

type file struct {
	Reviewers map[string][]string `yaml:"reviewers"`
}

// NewStatic builds a directory from an in-memory capability table.
func NewStatic(reviewers map[string][]string) *Static {
	roles := make(map[string]map[string]struct{}, len(reviewers))
	for reviewer, held := range reviewers {
		set := make(map[string]struct{}, len(held))
		for _, role := range held {
			set[role] = struct{}{}
		}
		roles[reviewer] = set
	}
	return &Static{roles: roles}
}

// NewFromFile loads the capability table from a YAML file:
//
//	reviewers:
//	  alice: [re_analyst, legal_reviewer]
//	  bob: [surveyor]
func NewFromFile(path string) (*Static, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reviewer directory: %w", err)
	}
	var parsed file
	if err := yaml.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("parse reviewer directory: %w", err)
	}
	return NewStatic(parsed.Reviewers), nil
}

// HasRole reports whether the reviewer holds the role. Unknown reviewers
// hold nothing.
func (d *Static) HasRole(_ context.Context, reviewerID, role string) (bool, error) {
	if d == nil {
		return false, nil
	}
	held, ok := d.roles[reviewerID]
	if !ok {
		return false, nil
	}
	_, ok = held[role]
	return ok, nil
}
