// Package naming builds clip and batch output file names, including
// collision-free allocation against the existing filesystem.
package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNameExhausted is returned when no free output name was found within
// the bounded number of suffix attempts.
var ErrNameExhausted = errors.New("could not allocate a free output name")

// maxSuffixAttempts bounds the collision probe loop.
const maxSuffixAttempts = 1000

// Stem returns the source file's base name without extension.
func Stem(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ClipOutputPath names the clip for the index-th segment (1-based) of a
// source: {base}_clip_{index, zero-padded 2}.{ext}.
func ClipOutputPath(outputDir, sourcePath string, index int, ext string) string {
	file := fmt.Sprintf("%s_clip_%02d.%s", Stem(sourcePath), index, ext)
	return filepath.Join(outputDir, file)
}

// BuildUniqueOutputPath allocates a collision-free path for stem in
// outputDir by probing the filesystem: the plain name first, then numeric
// suffixes so an occupied "video_lut.mov" yields "video_lut_2.mov". The
// probe loop is bounded; exhausting it returns ErrNameExhausted.
func BuildUniqueOutputPath(outputDir, stem, ext string) (string, error) {
	candidate := filepath.Join(outputDir, stem+"."+ext)
	if nameFree(candidate) {
		return candidate, nil
	}

	// The occupied plain name counts as the first copy, so suffixes
	// start at 2.
	for n := 2; n < 2+maxSuffixAttempts; n++ {
		candidate = filepath.Join(outputDir, fmt.Sprintf("%s_%d.%s", stem, n, ext))
		if nameFree(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %q in %s", ErrNameExhausted, stem, outputDir)
}

// nameFree reports whether path can be claimed. Only a definitive
// not-exist answer counts as free; any other stat error means the name
// cannot be trusted and is skipped.
func nameFree(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}
