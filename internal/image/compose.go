package imagepkg

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/youruser/deckstudio/internal/artwork"
	"github.com/youruser/deckstudio/internal/cards"
	"github.com/youruser/deckstudio/internal/deck"
)

// Canvas layout. The upper band holds leader art, title banner and QR; the
// lower band is the thumbnail grid.
const (
	finalW = 2150
	finalH = 2048
	gridH  = 1500
	upperH = finalH - gridH
	gap    = 48

	qrSize = 400

	// leader art keeps the card's 400:280 top-half crop ratio and exactly
	// fills the upper band
	leaderH = upperH
	leaderW = leaderH * 400 / 280

	titleAreaW = finalW - 3*gap - leaderW - qrSize
	titlePad   = 50
	titleSize  = 70.0

	cardW      = 215
	cardH      = 300
	gridCols   = 10
	gridRows   = 5
	gridMargin = 0

	leaderX = gap
	titleX  = leaderX + leaderW + gap
	qrX     = titleX + titleAreaW + gap
	qrY     = (upperH - qrSize) / 2
)

// Background fill per leader color; unknown colors render white.
var colorHex = map[string]color.NRGBA{
	"赤": {0xAC, 0x11, 0x22, 0xFF},
	"緑": {0x00, 0x88, 0x66, 0xFF},
	"青": {0x00, 0x84, 0xBD, 0xFF},
	"紫": {0x93, 0x38, 0x8B, 0xFF},
	"黒": {0x21, 0x18, 0x18, 0xFF},
	"黄": {0xF7, 0xE7, 0x31, 0xFF},
}

var white = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}

func hexFor(c string) color.NRGBA {
	if v, ok := colorHex[c]; ok {
		return v
	}
	return white
}

// Composer renders deck preview images. Every sub-step degrades on failure:
// missing art, unloadable fonts or a failed QR encode leave their area blank
// instead of aborting. Output is deterministic for identical deck state, so
// rendered PNGs are cached by their codec text.
type Composer struct {
	art        artwork.Source
	fontPaths  []string
	fetchLimit int
	log        *zap.Logger

	mu    sync.Mutex
	cache map[string][]byte
}

func NewComposer(art artwork.Source, fontPaths []string, fetchLimit int, log *zap.Logger) *Composer {
	if fetchLimit <= 0 {
		fetchLimit = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{
		art:        art,
		fontPaths:  fontPaths,
		fetchLimit: fetchLimit,
		log:        log,
		cache:      map[string][]byte{},
	}
}

// RenderPNG composes the deck image and encodes it, serving identical deck
// state from cache.
func (cp *Composer) RenderPNG(ctx context.Context, d deck.Deck, ct *cards.Catalog) ([]byte, error) {
	key := deck.Serialize(d, ct)

	cp.mu.Lock()
	if b, ok := cp.cache[key]; ok {
		cp.mu.Unlock()
		return b, nil
	}
	cp.mu.Unlock()

	img := cp.Render(ctx, d, ct)
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}

	cp.mu.Lock()
	cp.cache[key] = buf.Bytes()
	cp.mu.Unlock()
	return buf.Bytes(), nil
}

// Render composes the full deck image: background, leader art, QR, title
// banner, then the thumbnail grid.
func (cp *Composer) Render(ctx context.Context, d deck.Deck, ct *cards.Catalog) image.Image {
	var leaderColors []string
	if leader, ok := ct.Get(d.Leader); ok {
		leaderColors = cards.SplitListCell(leader.Color)
	}

	canvas := cp.background(leaderColors)
	cp.drawLeader(ctx, canvas, d.Leader)
	cp.drawQR(canvas, deck.Serialize(d, ct))
	cp.drawTitle(canvas, d.Name)
	cp.drawGrid(ctx, canvas, deck.Ordered(d, ct))

	// flatten onto opaque white so the output carries no alpha
	out := imaging.New(finalW, finalH, white)
	return imaging.Overlay(out, canvas, image.Pt(0, 0), 1.0)
}

// background fills the canvas: solid for a monocolor leader, a horizontal
// gradient between the first two colors for a multicolor one, white
// otherwise.
func (cp *Composer) background(leaderColors []string) *image.NRGBA {
	canvas := imaging.New(finalW, finalH, white)
	switch {
	case len(leaderColors) == 1:
		fill := hexFor(leaderColors[0])
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	case len(leaderColors) >= 2:
		c1 := hexFor(leaderColors[0])
		c2 := hexFor(leaderColors[1])
		for x := 0; x < finalW; x++ {
			ratio := float64(x) / float64(finalW)
			col := color.NRGBA{
				R: uint8(float64(c1.R)*(1-ratio) + float64(c2.R)*ratio),
				G: uint8(float64(c1.G)*(1-ratio) + float64(c2.G)*ratio),
				B: uint8(float64(c1.B)*(1-ratio) + float64(c2.B)*ratio),
				A: 0xFF,
			}
			for y := 0; y < finalH; y++ {
				canvas.SetNRGBA(x, y, col)
			}
		}
	}
	return canvas
}

// drawLeader pastes the top-half crop of the leader card at the band's left
// edge. Fetch or decode failure leaves the background showing.
func (cp *Composer) drawLeader(ctx context.Context, canvas *image.NRGBA, leaderID string) {
	if leaderID == "" {
		return
	}
	img, err := cp.art.Fetch(ctx, leaderID)
	if err != nil {
		cp.log.Warn("leader art unavailable", zap.String("card_id", leaderID), zap.Error(err))
		return
	}
	full := imaging.Resize(img, leaderW, leaderH*2, imaging.Lanczos)
	top := imaging.Crop(full, image.Rect(0, 0, leaderW, leaderH))
	overlayAt(canvas, top, image.Pt(leaderX, 0))
}

// drawQR encodes the codec text and pastes it vertically centered at the
// right edge of the upper band.
func (cp *Composer) drawQR(canvas *image.NRGBA, text string) {
	qr, err := GenerateQRImage(text, qrSize)
	if err != nil {
		cp.log.Warn("qr encode failed", zap.Error(err))
		return
	}
	overlayAt(canvas, qr, image.Pt(qrX, qrY))
}

// drawTitle draws the deck name over a semi-transparent banner centered
// between leader art and QR. Skipped entirely for unnamed decks.
func (cp *Composer) drawTitle(canvas *image.NRGBA, name string) {
	if name == "" {
		return
	}
	face := ResolveFace(cp.fontPaths, titleSize)
	defer face.Close()

	bounds, _ := font.BoundString(face, name)
	textW := (bounds.Max.X - bounds.Min.X).Ceil()
	textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	bgH := textH + 40
	bgX1 := titleX + titlePad
	bgX2 := titleX + titleAreaW - titlePad
	bgY1 := (upperH - bgH) / 2

	banner := image.Rect(bgX1, bgY1, bgX2, bgY1+bgH)
	draw.Draw(canvas, banner, image.NewUniform(color.NRGBA{0, 0, 0, 128}), image.Point{}, draw.Over)

	textX := bgX1 + (bgX2-bgX1-textW)/2
	dr := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(white),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(textX) - bounds.Min.X,
			Y: fixed.I(bgY1+20) - bounds.Min.Y,
		},
	}
	dr.DrawString(name)
}

// drawGrid expands entries into a flat ID sequence, fetches the distinct
// thumbnails concurrently, then pastes row-major from the top of the lower
// band. Entries beyond the grid capacity are omitted from the image only.
func (cp *Composer) drawGrid(ctx context.Context, canvas *image.NRGBA, entries []deck.Entry) {
	var flat []string
	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			flat = append(flat, e.CardID)
		}
	}
	if len(flat) > gridCols*gridRows {
		flat = flat[:gridCols*gridRows]
	}
	if len(flat) == 0 {
		return
	}

	fetched := artwork.FetchAll(ctx, cp.art, flat, cp.fetchLimit, cp.log)
	thumbs := make(map[string]*image.NRGBA, len(fetched))
	for id, img := range fetched {
		thumbs[id] = imaging.Resize(img, cardW, cardH, imaging.Lanczos)
	}

	xStart := (finalW - (cardW*gridCols + gridMargin*(gridCols-1))) / 2
	for idx, id := range flat {
		thumb, ok := thumbs[id]
		if !ok {
			continue
		}
		row := idx / gridCols
		col := idx % gridCols
		x := xStart + col*(cardW+gridMargin)
		y := upperH + row*(cardH+gridMargin)
		overlayAt(canvas, thumb, image.Pt(x, y))
	}
}

// overlayAt alpha-composites src onto dst in place at pt.
func overlayAt(dst *image.NRGBA, src image.Image, pt image.Point) {
	draw.Draw(dst, src.Bounds().Add(pt.Sub(src.Bounds().Min)), src, src.Bounds().Min, draw.Over)
}
