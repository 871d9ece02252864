package lut

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CubeExt is the only accepted LUT file extension.
const CubeExt = ".cube"

// BuildFilterGraph turns a LUT path plus an intensity (0-100) into a video
// filter expression. Pure beyond a readability check on the path.
//
//	intensity <= 0    -> "" (identity, no filter)
//	intensity >= 100  -> direct lut3d application
//	otherwise         -> split into an original and a LUT branch, then
//	                     alpha-blend the LUT branch over the original at
//	                     intensity/100 opacity (4 decimal places).
func BuildFilterGraph(lutPath string, intensity int) (string, error) {
	if intensity <= 0 {
		return "", nil
	}

	if !strings.EqualFold(filepath.Ext(lutPath), CubeExt) {
		return "", fmt.Errorf("unsupported LUT file %q: want %s", lutPath, CubeExt)
	}
	f, err := os.Open(lutPath)
	if err != nil {
		return "", fmt.Errorf("LUT not readable: %w", err)
	}
	f.Close()

	escaped := EscapeFilterPath(lutPath)

	if intensity >= 100 {
		return fmt.Sprintf("lut3d='%s'", escaped), nil
	}

	opacity := fmt.Sprintf("%.4f", float64(intensity)/100)
	return fmt.Sprintf(
		"split[orig][for3d];[for3d]lut3d='%s'[graded];[orig][graded]blend=all_mode=normal:all_opacity=%s",
		escaped, opacity,
	), nil
}

// EscapeFilterPath rewrites a filesystem path for embedding in filter
// syntax, where backslash, colon, and single quote are metacharacters.
// Backslashes are normalized to forward slashes (Windows paths), colons
// and single quotes are escaped.
func EscapeFilterPath(path string) string {
	s := strings.ReplaceAll(path, `\`, "/")
	s = strings.ReplaceAll(s, ":", `\:`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}
