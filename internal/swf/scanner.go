package swf

import "bytes"

// Blacklist is the fixed list of lowercase byte strings whose presence
// in a decompressed SWF body classifies it as dangerous. It is a
// compile-time constant; broadening it is the cheap fix for any newly
// discovered dangerous symbol, but it must not be made configurable
// without a security review — the scan is the last line of defense.
var Blacklist = []string{
	"flash.net",
	"flash.filesystem",
	"flash.external",
	"flash.html",
	"flash.desktop",
	"flash.system",
	"loader",
	"getdefinitionbyname",
}

// Scan performs a case-insensitive substring scan of d against list,
// returning the matched entries in list order. A non-empty result means
// "dangerous". If maxFindings is positive, the scan stops after that
// many hits.
func Scan(d []byte, list []string, maxFindings int) []string {
	lower := toLowerASCII(d)

	var matches []string
	for _, entry := range list {
		if bytes.Contains(lower, []byte(entry)) {
			matches = append(matches, entry)
			if maxFindings > 0 && len(matches) >= maxFindings {
				break
			}
		}
	}
	return matches
}

func toLowerASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
