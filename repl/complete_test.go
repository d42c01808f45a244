// Copyright © 2026 The Crisp authors

package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateCompleter(t *testing.T) {
	c := &predicateCompleter{names: completions(newEngine(t))}

	// "NamedDecl::getN" should complete to getName and friends.
	candidates, offset := c.Do([]rune("'NamedDecl::getN"), 16)
	assert.Equal(t, 15, offset)
	assert.Contains(t, candidates, []rune("ame"))

	// Prelude and fact predicates are offered too.
	candidates, offset = c.Do([]rune("init"), 4)
	assert.Equal(t, 4, offset)
	assert.Contains(t, candidates, []rune("_msg"))
	candidates, _ = c.Do([]rune("foo, translationUnit"), 20)
	assert.Contains(t, candidates, []rune("MainFileName"))

	candidates, _ = c.Do([]rune("zzz_nonexistent"), 15)
	assert.Empty(t, candidates)

	candidates, offset = c.Do([]rune("("), 1)
	assert.Empty(t, candidates)
	assert.Zero(t, offset)
}
