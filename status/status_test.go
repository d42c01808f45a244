// Copyright © 2026 The Crisp authors

package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	assert.Equal(t, OK, FromError(nil))
	assert.Equal(t, Failure, FromError(errors.New("boom")))
	assert.Equal(t, Failure, FromError(&FailedError{Goal: "runTranslationUnitAnalysis"}))

	cfg := Configf("load rules", ErrMissingRules, "%s", "nope.pl")
	assert.Equal(t, Config, FromError(cfg))
	assert.Equal(t, Config, FromError(fmt.Errorf("driver: %w", cfg)))
	assert.ErrorIs(t, cfg, ErrMissingRules)
	assert.Equal(t, "load rules: rule file not found: nope.pl", cfg.Error())
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "configuration error", Config.String())
	assert.Equal(t, "status(9)", Code(9).String())
	assert.Equal(t, 2, int(Config))
}
