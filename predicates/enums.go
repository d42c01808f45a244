// Copyright © 2026 The Crisp authors

package predicates

import (
	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
)

// accessSpecifierNames are the atoms access specifiers are bound to.
var accessSpecifierNames = [...]string{
	cxxast.AccessPublic:    "public",
	cxxast.AccessProtected: "protected",
	cxxast.AccessPrivate:   "private",
	cxxast.AccessNone:      "none",
}

// A new access specifier needs a name here.
var _ = [1]struct{}{}[len(accessSpecifierNames)-int(cxxast.NumAccessSpecifiers)]

var accessSpecifierEncoder = bridge.Enum[cxxast.AccessSpecifier](accessSpecifierNames[:])
