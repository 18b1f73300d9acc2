package imagepkg

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// ResolveFace loads the first usable font from the candidate paths at the
// given size. Candidates come from configuration, not hard-coded platform
// paths. When none load it degrades to the built-in bitmap face rather than
// failing, so title rendering can never abort a composition.
func ResolveFace(paths []string, size float64) font.Face {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		ft, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}
		return face
	}
	return basicfont.Face7x13
}
