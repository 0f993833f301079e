package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce  sync.Once
	fontData  *opentype.Font
	fontErr   error
	faceMu    sync.Mutex
	faceCache = make(map[float64]font.Face)
)

// fontFace returns a Go Regular face at the given size, cached per size.
// Falls back to the fixed 7x13 face if the font fails to parse.
func fontFace(size float64) font.Face {
	fontOnce.Do(func() {
		fontData, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil || fontData == nil {
		return basicfont.Face7x13
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face
	}
	face, err := opentype.NewFace(fontData, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	faceCache[size] = face
	return face
}
