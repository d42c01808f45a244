// Copyright © 2026 The Crisp authors

package lint

type builtin struct {
	name  string
	arity int
}

// builtins lists the control constructs and library predicates of the
// logic engine that rule files call.
var builtins = []builtin{
	{"!", 0}, {"true", 0}, {"fail", 0}, {"false", 0}, {"halt", 0}, {"halt", 1},
	{"call", 1}, {"call", 2}, {"call", 3}, {"call", 4}, {"call", 5}, {"call", 6}, {"call", 7}, {"call", 8},
	{",", 2}, {";", 2}, {"->", 2}, {"*->", 2}, {`\+`, 1}, {"once", 1}, {"ignore", 1}, {"not", 1},
	{"catch", 3}, {"throw", 1}, {"forall", 2}, {"findall", 3}, {"findall", 4}, {"bagof", 3}, {"setof", 3},
	{"aggregate_all", 3},
	{"=", 2}, {`\=`, 2}, {"unify_with_occurs_check", 2}, {"==", 2}, {`\==`, 2},
	{"@<", 2}, {"@=<", 2}, {"@>", 2}, {"@>=", 2}, {"compare", 3},
	{"var", 1}, {"nonvar", 1}, {"atom", 1}, {"number", 1}, {"integer", 1}, {"float", 1},
	{"atomic", 1}, {"compound", 1}, {"callable", 1}, {"is_list", 1}, {"ground", 1},
	{"functor", 3}, {"arg", 3}, {"=..", 2}, {"copy_term", 2}, {"term_variables", 2},
	{"is", 2}, {"=:=", 2}, {`=\=`, 2}, {"<", 2}, {"=<", 2}, {">", 2}, {">=", 2},
	{"succ", 2}, {"plus", 3}, {"between", 3},
	{"clause", 2}, {"current_predicate", 1}, {"asserta", 1}, {"assertz", 1}, {"assert", 1},
	{"retract", 1}, {"retractall", 1}, {"abolish", 1},
	{"atom_length", 2}, {"atom_concat", 3}, {"sub_atom", 5}, {"atom_chars", 2}, {"atom_codes", 2},
	{"char_code", 2}, {"number_chars", 2}, {"number_codes", 2}, {"atom_number", 2},
	{"write", 1}, {"write", 2}, {"writeq", 1}, {"writeq", 2}, {"print", 1}, {"write_canonical", 1},
	{"write_term", 2}, {"write_term", 3}, {"nl", 0}, {"nl", 1}, {"put_char", 1}, {"read_term", 2}, {"read", 1},
	{"member", 2}, {"memberchk", 2}, {"append", 3}, {"append", 2}, {"length", 2}, {"reverse", 2},
	{"nth0", 3}, {"nth1", 3}, {"last", 2}, {"select", 3}, {"delete", 3}, {"exclude", 3}, {"include", 3},
	{"maplist", 2}, {"maplist", 3}, {"maplist", 4}, {"foldl", 4}, {"sum_list", 2}, {"max_list", 2},
	{"msort", 2}, {"sort", 2}, {"sort", 4}, {"keysort", 2}, {"list_to_set", 2}, {"subtract", 3},
	{"phrase", 2}, {"phrase", 3}, {"op", 3}, {"current_op", 3}, {"consult", 1},
	{"dynamic", 1}, {"discontiguous", 1}, {"multifile", 1}, {"initialization", 1},
}
