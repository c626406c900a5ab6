// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ioutil implements the minimal little-endian, length-prefixed
// primitive codec shared by the crawler's temp-file records and the final
// index file. No framing, no checksums, no version tag — readers must not
// assume alignment.
package ioutil

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// WriteU32 writes v as 4 little-endian bytes.
func WriteU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteF32 writes v as 4 little-endian IEEE-754 bytes.
func WriteF32(w io.Writer, v float32) error {
	return WriteU32(w, math.Float32bits(v))
}

// WriteStr writes s as a u32 byte length followed by its raw UTF-8 bytes.
func WriteStr(w io.Writer, s string) error {
	if err := WriteU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// WriteTFMap writes m as a u32 count followed by count (str, u32) pairs.
func WriteTFMap(w io.Writer, m map[string]uint32) error {
	if err := WriteU32(w, uint32(len(m))); err != nil {
		return err
	}
	for word, freq := range m {
		if err := WriteStr(w, word); err != nil {
			return err
		}
		if err := WriteU32(w, freq); err != nil {
			return err
		}
	}
	return nil
}

// ReadU32 reads 4 little-endian bytes.
func ReadU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadF32 reads 4 little-endian IEEE-754 bytes.
func ReadF32(r io.Reader) (float32, error) {
	bits, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// maxStrLen bounds a single decoded string to guard against a corrupt
// length prefix causing an enormous allocation.
const maxStrLen = 256 << 20 // 256 MiB

// ReadStr reads a u32 byte length followed by that many raw bytes.
// Invalid UTF-8 is replaced lossily, matching the reference decoder.
func ReadStr(r io.Reader) (string, error) {
	n, err := ReadU32(r)
	if err != nil {
		return "", err
	}
	if n > maxStrLen {
		return "", fmt.Errorf("ioutil: string length %d exceeds sanity bound", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return lossyUTF8(buf), nil
}

// maxTFEntries bounds a single decoded tf_map to guard against a corrupt
// count prefix causing an enormous allocation.
const maxTFEntries = 64 << 20

// ReadTFMap reads a u32 count followed by count (str, u32) pairs.
func ReadTFMap(r io.Reader) (map[string]uint32, error) {
	n, err := ReadU32(r)
	if err != nil {
		return nil, err
	}
	if n > maxTFEntries {
		return nil, fmt.Errorf("ioutil: tf_map count %d exceeds sanity bound", n)
	}
	m := make(map[string]uint32, n)
	for i := uint32(0); i < n; i++ {
		word, err := ReadStr(r)
		if err != nil {
			return nil, err
		}
		freq, err := ReadU32(r)
		if err != nil {
			return nil, err
		}
		m[word] = freq
	}
	return m, nil
}

// lossyUTF8 returns b as a string, replacing any invalid UTF-8 sequence
// with the Unicode replacement character rather than rejecting the input.
func lossyUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
