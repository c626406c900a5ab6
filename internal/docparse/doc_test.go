// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleLsPage = `NAME
       ls - list directory contents

SYNOPSIS
       ls [OPTION]... [FILE]...

DESCRIPTION
       List information about the FILEs.
`

func TestParse_SampleLsPage(t *testing.T) {
	f, ok := Parse("ls.1", sampleLsPage)
	require.True(t, ok)
	require.Equal(t, "ls", f.CmdName) // short words (len <= 2) pass through the stemmer unchanged
	require.Equal(t, "list directory contents", f.NameDescRaw)
	require.Greater(t, f.SynopsisLen, uint32(0))
	require.Greater(t, f.BodyLen, uint32(0))
}

func TestParse_EmptyDocumentRejected(t *testing.T) {
	_, ok := Parse("empty.1", "\n\n   \n")
	require.False(t, ok)
}

func TestParse_FallsBackToFilenameForCmdName(t *testing.T) {
	f, ok := Parse("grep.1", "DESCRIPTION\n    search for a pattern\n")
	require.True(t, ok)
	require.NotEmpty(t, f.CmdName)
}

func TestParseNameLine_HyphenSeparator(t *testing.T) {
	names, desc := parseNameLine("cp, copy - copy files and directories")
	require.Equal(t, []string{"cp", "copy"}, names)
	require.Equal(t, "copy files and directories", desc)
}

func TestParseNameLine_EnDashSeparator(t *testing.T) {
	names, desc := parseNameLine("tail – output the last part of files")
	require.Equal(t, []string{"tail"}, names)
	require.Equal(t, "output the last part of files", desc)
}

func TestParseNameLine_NoSeparator(t *testing.T) {
	names, desc := parseNameLine("busybox")
	require.Equal(t, []string{"busybox"}, names)
	require.Equal(t, "", desc)
}

func TestDocTypeMultiplier_ConstSuffixShortCircuits(t *testing.T) {
	require.Equal(t, float32(0.1), docTypeMultiplier("errno.3const"))
}

func TestDocTypeMultiplier_TypeSuffixShortCircuits(t *testing.T) {
	require.Equal(t, float32(0.1), docTypeMultiplier("stat.2type"))
}

func TestDocTypeMultiplier_HeadSuffixShortCircuits(t *testing.T) {
	require.Equal(t, float32(0.1), docTypeMultiplier("sys_types.3head"))
}

func TestDocTypeMultiplier_SectionOneVIP(t *testing.T) {
	require.Equal(t, float32(4.0*5.0), docTypeMultiplier("ls.1"))
}

func TestDocTypeMultiplier_SectionOneNonVIP(t *testing.T) {
	require.Equal(t, float32(4.0*1.0), docTypeMultiplier("obscuretool.1"))
}

func TestDocTypeMultiplier_SectionEight(t *testing.T) {
	require.Equal(t, float32(2.5), docTypeMultiplier("obscuredaemon.8"))
}

func TestDocTypeMultiplier_SectionFive(t *testing.T) {
	require.Equal(t, float32(1.2), docTypeMultiplier("fstab.5"))
}

func TestDocTypeMultiplier_SectionTwoOrThree(t *testing.T) {
	require.Equal(t, float32(0.8), docTypeMultiplier("open.2"))
	require.Equal(t, float32(0.8), docTypeMultiplier("printf.3"))
}

func TestDocTypeMultiplier_SectionFourSixSeven(t *testing.T) {
	require.Equal(t, float32(0.6), docTypeMultiplier("tty.4"))
	require.Equal(t, float32(0.6), docTypeMultiplier("term.6"))
	require.Equal(t, float32(0.6), docTypeMultiplier("ascii.7"))
}

func TestDocTypeMultiplier_UnknownSectionDefaults(t *testing.T) {
	require.Equal(t, float32(0.8), docTypeMultiplier("weird.9"))
}

func TestSectionState_NameLineDegradesToBodyAfterFirstLine(t *testing.T) {
	var s sectionState
	require.Equal(t, sectionName, s.advance("NAME"))
	require.Equal(t, sectionName, s.advance("       ls - list directory contents"))
	require.Equal(t, sectionBody, s.advance("       Extra commentary line."))
}

func TestSectionState_HeaderResetsState(t *testing.T) {
	var s sectionState
	s.advance("NAME")
	s.advance("       ls - list directory contents")
	require.Equal(t, sectionSynopsis, s.advance("SYNOPSIS"))
}

func TestSectionState_BlankLinesInNameSectionDoNotDegrade(t *testing.T) {
	var s sectionState
	s.advance("NAME")
	require.Equal(t, sectionName, s.advance(""))
	require.Equal(t, sectionName, s.advance("       ls - list directory contents"))
}

func TestIsHeader(t *testing.T) {
	require.True(t, isHeader("NAME"))
	require.True(t, isHeader("SEE ALSO"))
	require.False(t, isHeader("N"))
	require.False(t, isHeader("list directory contents"))
	require.False(t, isHeader(""))
}
