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

// vipCommands is the curated set of high-popularity commands whose
// documents receive the VIP multiplier in docTypeMultiplier. A process-wide
// constant, paid once at package init, never mutated.
var vipCommands = map[string]struct{}{
	"ls": {}, "cp": {}, "mv": {}, "rm": {}, "mkdir": {}, "rmdir": {}, "cd": {}, "pwd": {},
	"cat": {}, "echo": {}, "chmod": {}, "chown": {}, "tar": {}, "grep": {}, "find": {},
	"awk": {}, "sed": {}, "kill": {}, "ps": {}, "top": {}, "df": {}, "du": {}, "mount": {},
	"umount": {}, "ip": {}, "ping": {}, "ssh": {}, "bash": {}, "sh": {}, "sudo": {}, "su": {},
	"apt": {}, "pacman": {}, "systemctl": {}, "journalctl": {}, "man": {}, "info": {},
	"less": {}, "more": {}, "nano": {}, "vim": {}, "git": {}, "curl": {}, "wget": {},
	"rsync": {}, "ln": {}, "stat": {}, "touch": {}, "tail": {}, "head": {}, "sort": {},
	"uniq": {}, "wc": {}, "read": {}, "gzip": {}, "bzip2": {}, "unzip": {}, "zip": {},
	"chgrp": {}, "date": {}, "cal": {}, "whoami": {},
}

func isVIPCommand(base string) bool {
	_, ok := vipCommands[base]
	return ok
}
