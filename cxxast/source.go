// Copyright © 2026 The Crisp authors

package cxxast

import (
	"bytes"
	"regexp"
	"sort"
	"strconv"
)

// FileID identifies a file registered with a SourceManager.  The zero FileID
// is invalid.
type FileID int

// SourceLocation is a position in a registered file, encoded as a byte
// offset.  The zero SourceLocation is invalid.
type SourceLocation struct {
	File   FileID
	Offset int
}

// IsValid reports whether the location refers to a registered file.
func (l SourceLocation) IsValid() bool {
	return l.File > 0
}

// SourceRange is a closed range of source locations.
type SourceRange struct {
	Begin SourceLocation
	End   SourceLocation
}

// IsValid reports whether both ends of the range are valid.
func (r SourceRange) IsValid() bool {
	return r.Begin.IsValid() && r.End.IsValid()
}

// PresumedLoc is a location as the user sees it: file name, line and column
// after #line directives have been applied.  Lines and columns are 1-based.
type PresumedLoc struct {
	Filename string
	Line     int
	Column   int
}

// IsValid reports whether the presumed location was resolved.
func (p PresumedLoc) IsValid() bool {
	return p.Line > 0
}

type lineDirective struct {
	physLine int // 1-based line holding the directive
	line     int // presumed line number of the following line
	filename string
}

type fileEntry struct {
	name       string
	content    []byte
	lineStarts []int
	directives []lineDirective
}

// SourceManager owns the contents of every file of a translation unit and
// resolves locations into presumed locations.
type SourceManager struct {
	files []*fileEntry
	main  FileID
}

// NewSourceManager returns an empty SourceManager.
func NewSourceManager() *SourceManager {
	return &SourceManager{}
}

var lineDirectiveRegexp = regexp.MustCompile(`^[ \t]*#[ \t]*(?:line[ \t]+)?([0-9]+)(?:[ \t]+"([^"]*)")?`)

// AddFile registers a file and returns its id.  The first file added becomes
// the main file unless SetMainFile is called.
func (sm *SourceManager) AddFile(name string, content []byte) FileID {
	e := &fileEntry{name: name, content: content, lineStarts: []int{0}}
	for i, c := range content {
		if c == '\n' {
			e.lineStarts = append(e.lineStarts, i+1)
		}
	}
	for i, start := range e.lineStarts {
		end := len(content)
		if i+1 < len(e.lineStarts) {
			end = e.lineStarts[i+1]
		}
		line := bytes.TrimRight(content[start:end], "\r\n")
		m := lineDirectiveRegexp.FindSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(string(m[1]))
		if err != nil {
			continue
		}
		e.directives = append(e.directives, lineDirective{
			physLine: i + 1,
			line:     n,
			filename: string(m[2]),
		})
	}
	sm.files = append(sm.files, e)
	id := FileID(len(sm.files))
	if sm.main == 0 {
		sm.main = id
	}
	return id
}

// SetMainFile marks id as the main file of the translation unit.
func (sm *SourceManager) SetMainFile(id FileID) {
	sm.main = id
}

// MainFileID returns the id of the main file.
func (sm *SourceManager) MainFileID() FileID {
	return sm.main
}

// MainFileName returns the name the main file was registered with.
func (sm *SourceManager) MainFileName() string {
	return sm.FileName(sm.main)
}

func (sm *SourceManager) entry(id FileID) *fileEntry {
	if id <= 0 || int(id) > len(sm.files) {
		return nil
	}
	return sm.files[id-1]
}

// FileName returns the registered name of a file, or "" for an unknown id.
func (sm *SourceManager) FileName(id FileID) string {
	if e := sm.entry(id); e != nil {
		return e.name
	}
	return ""
}

// Content returns the bytes of a registered file.
func (sm *SourceManager) Content(id FileID) []byte {
	if e := sm.entry(id); e != nil {
		return e.content
	}
	return nil
}

// Loc builds a location in file id at the given byte offset.
func (sm *SourceManager) Loc(id FileID, offset int) SourceLocation {
	return SourceLocation{File: id, Offset: offset}
}

// PhysicalLoc resolves loc ignoring #line directives.
func (sm *SourceManager) PhysicalLoc(loc SourceLocation) PresumedLoc {
	e := sm.entry(loc.File)
	if e == nil || loc.Offset < 0 || loc.Offset > len(e.content) {
		return PresumedLoc{}
	}
	i := sort.Search(len(e.lineStarts), func(i int) bool { return e.lineStarts[i] > loc.Offset }) - 1
	return PresumedLoc{
		Filename: e.name,
		Line:     i + 1,
		Column:   loc.Offset - e.lineStarts[i] + 1,
	}
}

// PresumedLoc resolves loc into the location a user would see, applying the
// last #line directive preceding it.
func (sm *SourceManager) PresumedLoc(loc SourceLocation) PresumedLoc {
	p := sm.PhysicalLoc(loc)
	if !p.IsValid() {
		return p
	}
	e := sm.entry(loc.File)
	var dir *lineDirective
	filename := p.Filename
	for i := range e.directives {
		if e.directives[i].physLine >= p.Line {
			break
		}
		dir = &e.directives[i]
		if dir.filename != "" {
			filename = dir.filename
		}
	}
	if dir == nil {
		return p
	}
	p.Line = dir.line + (p.Line - dir.physLine - 1)
	p.Filename = filename
	return p
}
