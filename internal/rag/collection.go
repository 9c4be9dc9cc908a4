package rag

import "strings"

// maxCollectionNameLen matches common external-index naming limits.
const maxCollectionNameLen = 63

// collectionPadToken is appended or prepended when sanitizing leaves a
// non-alphanumeric boundary character.
const collectionPadToken = "dir"

// DeriveCollectionName maps an absolute root path to a valid vector
// index collection name. It is deterministic and total: any non-empty
// path yields a non-empty name with alphanumeric first and last
// characters, at most maxCollectionNameLen bytes long.
func DeriveCollectionName(root string) string {
	name := strings.NewReplacer("/", "-", "\\", "-").Replace(root)
	name = strings.TrimFunc(name, func(r rune) bool { return !isAlnum(byte(r)) || r > 127 })

	if name == "" {
		// Path consisted entirely of separators and punctuation.
		return collectionPadToken
	}
	if !isAlnum(name[0]) {
		name = collectionPadToken + "-" + name
	}
	if len(name) > maxCollectionNameLen {
		name = name[:maxCollectionNameLen]
	}
	if !isAlnum(name[len(name)-1]) {
		// Truncation may have cut mid-separator; pad back to a valid
		// boundary.
		if len(name) > maxCollectionNameLen-len(collectionPadToken)-1 {
			name = name[:maxCollectionNameLen-len(collectionPadToken)-1]
		}
		name += "-" + collectionPadToken
	}
	return name
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
