package planogram

import "strings"

// artefakty eksportu z Excela: ="0012345" itp.
var upcArtifacts = strings.NewReplacer("=", "", `"`, "")

// CleanUPC usuwa '=' i cudzysłowy, zera wiodące zostają (nazwy plików obrazków).
func CleanUPC(raw string) string {
	return strings.TrimSpace(upcArtifacts.Replace(raw))
}

// NormalizeUPC – klucz do lookupów: CleanUPC + bez zer wiodących.
func NormalizeUPC(raw string) string {
	return strings.TrimLeft(CleanUPC(raw), "0")
}
