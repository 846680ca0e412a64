package builtin

import "os"

// writeFile writes data to path, creating or truncating it. Kept as a
// one-line seam so writeToFile's tests can be read without os plumbing
// noise.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
