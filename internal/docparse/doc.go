// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package docparse renders a man-page source file to plain text and
// parses it into the fields the builder scores: command name, NAME-line
// description, synopsis, and body.
package docparse

import (
	"strings"
	"unicode"

	"github.com/AleutianAI/manidx/internal/text"
)

// section is the sectioning state machine's current bucket.
type section int

const (
	sectionBody section = iota
	sectionName
	sectionSynopsis
)

// sectionState tracks the NAME-line degrade-to-body rule across lines.
//
// Description:
//
//	A line belongs to the Name section only while it is the first
//	non-empty line seen since the most recent header. Any subsequent
//	non-empty line before the next header degrades back to Body — this
//	captures only the canonical NAME line and routes commentary below it
//	into the body field.
type sectionState struct {
	current       section
	nameLinesSeen int
}

// isHeader classifies trimmed as a section header: length >= 2, every
// character is uppercase, whitespace, '_', or '-', and at least one
// character is uppercase.
func isHeader(trimmed string) bool {
	if len(trimmed) < 2 {
		return false
	}
	hasUpper := false
	for _, r := range trimmed {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsSpace(r), r == '_', r == '-':
		default:
			return false
		}
	}
	return hasUpper
}

// advance feeds the next line into the state machine and returns the
// effective section that line's tokens belong to.
func (s *sectionState) advance(line string) section {
	trimmed := strings.TrimSpace(line)

	if isHeader(trimmed) {
		s.nameLinesSeen = 0
		switch {
		case trimmed == "NAME":
			s.current = sectionName
		case strings.HasPrefix(trimmed, "SYNOPSIS"):
			s.current = sectionSynopsis
		default:
			s.current = sectionBody
		}
		return s.current
	}

	if s.current == sectionName {
		if trimmed == "" {
			return sectionName
		}
		s.nameLinesSeen++
		if s.nameLinesSeen > 1 {
			return sectionBody
		}
	}

	return s.current
}

// Fields holds the per-document data the crawler serializes and the
// builder scores.
type Fields struct {
	Fname       string
	CmdName     string
	NameDescRaw string

	NameDescTF map[string]uint32
	NameDescLen uint32

	SynopsisTF  map[string]uint32
	SynopsisLen uint32

	BodyTF  map[string]uint32
	BodyLen uint32
}

// docTypeMultiplier derives the per-document score multiplier from fname.
// const/type/head files short-circuit to 0.1 regardless of section or VIP
// status; otherwise the section multiplier and VIP multiplier combine.
func docTypeMultiplier(fname string) float32 {
	if strings.HasSuffix(fname, "const") || strings.HasSuffix(fname, "type") || strings.HasSuffix(fname, "head") {
		return 0.1
	}

	sectionMult := float32(0.8)
	if idx := strings.LastIndex(fname, "."); idx >= 0 && idx+1 < len(fname) {
		switch fname[idx+1] {
		case '1':
			sectionMult = 4.0
		case '8':
			sectionMult = 2.5
		case '5':
			sectionMult = 1.2
		case '2', '3':
			sectionMult = 0.8
		case '4', '6', '7':
			sectionMult = 0.6
		}
	}

	base := fname
	if idx := strings.Index(fname, "."); idx >= 0 {
		base = fname[:idx]
	}
	base = strings.ToLower(base)

	vipMult := float32(1.0)
	if isVIPCommand(base) {
		vipMult = 5.0
	}

	return sectionMult * vipMult
}

// DocTypeMultiplier exposes docTypeMultiplier to the builder package.
func DocTypeMultiplier(fname string) float32 {
	return docTypeMultiplier(fname)
}

// parseNameLine splits a NAME line into (command names, description).
// The left side of the first " - " or " – " separator, split on ',' or
// ';', trimmed and lowercased, yields command names; the right side,
// stripped of leading dashes/en-dashes/spaces, is the description. With
// no separator, the whole line is treated as names with an empty
// description.
func parseNameLine(line string) ([]string, string) {
	pos := strings.Index(line, " - ")
	if pos < 0 {
		pos = strings.Index(line, " – ")
	}

	var namesPart, descPart string
	if pos >= 0 {
		namesPart = line[:pos]
		descPart = strings.TrimLeft(line[pos+1:], " -–")
	} else {
		namesPart = line
	}

	var names []string
	for _, part := range strings.FieldsFunc(namesPart, func(r rune) bool { return r == ',' || r == ';' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			names = append(names, part)
		}
	}
	return names, strings.TrimSpace(descPart)
}

// Parse parses rendered man-page text into Fields, or returns (nil, false)
// when the document is empty across all three fields.
func Parse(fname, rendered string) (*Fields, bool) {
	f := &Fields{
		Fname:      fname,
		NameDescTF: make(map[string]uint32),
		SynopsisTF: make(map[string]uint32),
		BodyTF:     make(map[string]uint32),
	}

	var state sectionState
	foundNameLine := false

	for _, line := range strings.Split(rendered, "\n") {
		effective := state.advance(line)
		trimmed := strings.TrimSpace(line)

		if effective == sectionName && trimmed != "" && state.nameLinesSeen == 1 && !foundNameLine {
			names, desc := parseNameLine(trimmed)
			if len(names) > 0 {
				f.CmdName = stemSingleWord(names[0])
			}
			f.NameDescRaw = desc
			addTokens(f.NameDescTF, &f.NameDescLen, desc)
			foundNameLine = true
			continue
		}

		switch effective {
		case sectionSynopsis:
			addTokens(f.SynopsisTF, &f.SynopsisLen, line)
		default: // sectionName (after first line) and sectionBody both feed Body
			addTokens(f.BodyTF, &f.BodyLen, line)
		}
	}

	if f.CmdName == "" {
		base := fname
		if idx := strings.Index(fname, "."); idx >= 0 {
			base = fname[:idx]
		}
		base = strings.ToLower(base)
		if len(base) > 1 {
			f.CmdName = stemSingleWord(base)
		}
	}

	if f.NameDescLen+f.SynopsisLen+f.BodyLen == 0 {
		return nil, false
	}
	return f, true
}

// stemSingleWord trims, lowercases and stems a single word (a command
// name) without tokenizing it, bypassing the stop-word/min-length filter so that
// every command name — including two-letter ones like "ls" — survives.
func stemSingleWord(w string) string {
	s := text.NewStemmer()
	return s.Stem(strings.ToLower(strings.TrimSpace(w)))
}

func addTokens(tf map[string]uint32, length *uint32, line string) {
	toks := text.Tokenize(line)
	*length += uint32(len(toks))
	for _, t := range toks {
		tf[t]++
	}
}
