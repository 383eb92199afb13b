/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package delegation

import (
	"golang.org/x/exp/slices"
)

// Scope is an immutable set of permission atoms plus numeric bounds.
//
// MaxDepth counts the chain links permitted at or below the credential
// carrying the scope, including that credential itself; a usable scope has
// MaxDepth >= 1, and each delegation hop consumes one unit of the budget.
// NotAfter is the end of the validity window in Unix nanoseconds.
type Scope struct {
	Actions  []string `json:"actions"`
	MaxDepth int      `json:"maxDepth"`
	NotAfter int64    `json:"notAfter"`
}

// NewScope builds a scope from a copy of the given action atoms.
func NewScope(actions []string, maxDepth int, notAfter int64) Scope {
	return Scope{
		Actions:  slices.Clone(actions),
		MaxDepth: maxDepth,
		NotAfter: notAfter,
	}
}

// Subset reports whether every action of child is contained in parent.
func Subset(child, parent Scope) bool {
	for _, action := range child.Actions {
		if !slices.Contains(parent.Actions, action) {
			return false
		}
	}

	return true
}

// Intersect returns the scope granted by both a and b: the common actions,
// the smaller depth budget and the earlier expiry.
func Intersect(a, b Scope) Scope {
	var actions []string

	for _, action := range a.Actions {
		if slices.Contains(b.Actions, action) {
			actions = append(actions, action)
		}
	}

	depth := a.MaxDepth
	if b.MaxDepth < depth {
		depth = b.MaxDepth
	}

	notAfter := a.NotAfter
	if b.NotAfter < notAfter {
		notAfter = b.NotAfter
	}

	return Scope{Actions: actions, MaxDepth: depth, NotAfter: notAfter}
}

// Narrows reports whether child is a valid one-hop narrowing of parent:
// child's actions are a subset of parent's, child's depth budget is at least
// one but strictly below parent's, and child does not outlive parent.
func Narrows(parent, child Scope) bool {
	if !Subset(child, parent) {
		return false
	}

	if child.MaxDepth < 1 || child.MaxDepth > parent.MaxDepth-1 {
		return false
	}

	return child.NotAfter <= parent.NotAfter
}

func (s Scope) clone() Scope {
	return Scope{
		Actions:  slices.Clone(s.Actions),
		MaxDepth: s.MaxDepth,
		NotAfter: s.NotAfter,
	}
}

func scopeEqual(a, b Scope) bool {
	return slices.Equal(a.Actions, b.Actions) &&
		a.MaxDepth == b.MaxDepth &&
		a.NotAfter == b.NotAfter
}
