package discovery

// Dedupe drops extensions whose type FullName was already seen, keeping the
// first occurrence. Names are compared byte for byte, so the same type reached
// through two load paths collapses to one entry.
func Dedupe(in []LoadedExtension) []LoadedExtension {
	seen := make(map[string]struct{}, len(in))
	out := make([]LoadedExtension, 0, len(in))
	for _, ext := range in {
		if _, dup := seen[ext.Type.FullName]; dup {
			continue
		}
		seen[ext.Type.FullName] = struct{}{}
		out = append(out, ext)
	}
	return out
}
