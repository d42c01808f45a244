// Copyright © 2026 The Crisp authors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSample(t *testing.T) *table {
	t.Helper()
	text, err := os.ReadFile("testdata/sample.def")
	require.NoError(t, err)
	tab, err := readTable("testdata/sample.def", text)
	require.NoError(t, err)
	return tab
}

func TestReadTable(t *testing.T) {
	tab := readSample(t)
	assert.Equal(t, "cxxast", tab.typesAlias)
	assert.Equal(t, "github.com/crisp-analysis/crisp/cxxast", tab.typesPath)
	assert.True(t, tab.abstract["Decl"])
	assert.True(t, tab.value["QualType"])
	assert.True(t, tab.enum["AccessSpecifier"])

	var names []string
	for _, r := range tab.records {
		names = append(names, r.predicate())
	}
	assert.Equal(t, []string{
		"Decl::getKindName",
		"Decl::getAccess",
		"Decl::isImplicit",
		"CXXRecordDecl::method",
		"CXXRecordDecl::getTypeForDecl",
		"Stmt::descendant",
	}, names)
	assert.Equal(t, 10, tab.records[0].line)
}

func TestGenerate(t *testing.T) {
	src, err := readSample(t).generate("predicates", "samplePredicates")
	require.NoError(t, err)
	out := string(src)
	for _, want := range []string{
		"// Code generated by predgen from sample.def. DO NOT EDIT.",
		"package predicates",
		`"github.com/crisp-analysis/crisp/bridge"`,
		"var samplePredicates = []bridge.Predicate{",
		"\t// Decl\n",
		`bridge.GetOne[cxxast.Decl, string]("Decl::getKindName", cxxast.Decl.KindName, bridge.Text()),`,
		`bridge.GetOne[cxxast.Decl, cxxast.AccessSpecifier]("Decl::getAccess", cxxast.Decl.Access, accessSpecifierEncoder),`,
		`bridge.CheckProperty[cxxast.Decl]("Decl::isImplicit", cxxast.Decl.IsImplicit),`,
		`bridge.GetMany[*cxxast.CXXRecordDecl, cxxast.CXXMethodDecl]("CXXRecordDecl::method", (*cxxast.CXXRecordDecl).Methods, bridge.Pointer[cxxast.CXXMethodDecl]()),`,
		`bridge.GetOne[*cxxast.CXXRecordDecl, cxxast.QualType]("CXXRecordDecl::getTypeForDecl", (*cxxast.CXXRecordDecl).TypeForDecl, bridge.SmartRef[cxxast.QualType]()),`,
		`bridge.GetManyCursor[cxxast.Stmt, cxxast.Stmt]("Stmt::descendant", descendantCursor, bridge.Pointer[cxxast.Stmt]()),`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestReadTableErrors(t *testing.T) {
	const types = "types(x, \"example.com/x\").\n"
	tests := []struct {
		name string
		text string
		want string
	}{
		{"missing types", "get_one(n, A, string, M).\n", "missing types/2"},
		{"unknown record", types + "get_two(n, A, string, M).\n", "unknown record get_two/4"},
		{"wrong arity", types + "check_property(n, A).\n", "check_property/3 expected"},
		{"duplicate", types + "check_property(n, A, M).\ncheck_property(n, A, N).\n", "A::n already defined on line 2"},
		{"boolean result", types + "get_one(n, A, bool, M).\n", "belong in check_property"},
		{"rule", types + "get_one(n, A, string, M) :- true.\n", "rules are not allowed"},
		{"not a name", types + "check_property(n, 1, M).\n", "argument 2 is not a name"},
		{"syntax", "get_one(n,\n", "t.def:1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readTable("t.def", []byte(tc.text))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	text, err := os.ReadFile("testdata/sample.def")
	require.NoError(t, err)
	input := filepath.Join(dir, "sample.def")
	require.NoError(t, os.WriteFile(input, text, 0o644))

	require.NoError(t, run(input, "", "predicates", ""))
	out, err := os.ReadFile(filepath.Join(dir, "zz_generated_sample.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "var samplePredicates = []bridge.Predicate{")

	assert.Error(t, run(filepath.Join(dir, "missing.def"), "", "predicates", ""))
}

// The checked-in tables must match what the generator writes for them.
func TestGeneratedTablesUpToDate(t *testing.T) {
	for _, name := range []string{"clang", "llvm"} {
		t.Run(name, func(t *testing.T) {
			def := filepath.Join("..", "..", "predicates", name+".def")
			text, err := os.ReadFile(def)
			require.NoError(t, err)
			tab, err := readTable(def, text)
			require.NoError(t, err)
			src, err := tab.generate("predicates", name+"Predicates")
			require.NoError(t, err)
			want, err := os.ReadFile(filepath.Join("..", "..", "predicates", "zz_generated_"+name+".go"))
			require.NoError(t, err)
			assert.Equal(t, string(want), string(src), "run go generate ./predicates")
		})
	}
}
