package shell

import "strings"

// DefaultModName derives the name offered in the add-mod form from a picked
// file path. Both '/' and '\' count as separators regardless of platform,
// since the backend may run on a different OS than the shell. The trailing
// extension is dropped; a leading dot (".hidden") is not an extension.
func DefaultModName(path string) string {
	base := strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
