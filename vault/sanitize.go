package vault

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// StoredSuffix is appended to a sanitized name to form its stored
// identifier.
const StoredSuffix = ".enc"

// FallbackName is the download name used when a blob has no catalog
// record.
const FallbackName = "download.bin"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// windowsDeviceNames are reserved on Windows regardless of extension.
var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM0": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT0": true, "LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SecureFilename reduces name to a flat ASCII filename that is safe to use
// as a single path component. Accented letters are folded to their base
// letter, other non-ASCII is dropped, path separators and whitespace runs
// become '_', and leading or trailing '.' and '_' are trimmed. It returns
// "" if nothing survives, e.g. for "../../".
//
//	SecureFilename("My cool movie.mov")   == "My_cool_movie.mov"
//	SecureFilename("../../../etc/passwd") == "etc_passwd"
//	SecureFilename("i contain cool ümläuts.txt") == "i_contain_cool_umlauts.txt"
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	ascii.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		// Both separators split, whatever the host OS.
		case r == '/' || r == '\\':
			ascii.WriteByte(' ')
		case r < 0x80:
			ascii.WriteRune(r)
		}
	}

	joined := strings.Join(strings.FieldsFunc(ascii.String(), isASCIISpace), "_")
	out := strings.Trim(unsafeFilenameChars.ReplaceAllString(joined, ""), "._")

	if out != "" && windowsDeviceNames[strings.ToUpper(strings.SplitN(out, ".", 2)[0])] {
		out = "_" + out
	}
	return out
}

// isASCIISpace matches the separators str.split() uses for ASCII text,
// including the file/group/record/unit separators.
func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f:
		return true
	}
	return false
}

// StoredName returns the stored identifier for an already sanitized name.
func StoredName(name string) string {
	return name + StoredSuffix
}
