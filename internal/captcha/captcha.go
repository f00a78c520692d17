// Package captcha 生成图片验证码。
package captcha

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand/v2"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// 去掉了 0/O、1/I/L 等易混淆字符
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Generator 生成固定长度的验证码图片。
type Generator struct {
	Length int
	Width  int
	Height int
	rnd    *rand.Rand
}

// New 创建默认 4 位、120x40 的生成器。
func New() *Generator {
	return &Generator{Length: 4, Width: 120, Height: 40}
}

// NewSeeded 使用固定种子，便于测试复现。
func NewSeeded(seed uint64) *Generator {
	g := New()
	g.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return g
}

// Generate 返回验证码文本与 JPEG 图片。
func (g *Generator) Generate() (string, []byte, error) {
	text := g.randomText()

	// 先在小画布上用点阵字体绘制，再放大到目标尺寸
	face := basicfont.Face7x13
	glyphW := face.Advance + 3
	small := image.NewRGBA(image.Rect(0, 0, glyphW*len(text)+4, face.Height+4))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.RGBA{R: 245, G: 245, B: 240, A: 255}), image.Point{}, draw.Src)

	for i, ch := range text {
		d := &font.Drawer{
			Dst:  small,
			Src:  image.NewUniform(g.randomInk()),
			Face: face,
			Dot:  fixed.P(2+i*glyphW, face.Ascent+1+g.intn(3)),
		}
		d.DrawString(string(ch))
	}

	dst := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	g.addNoise(dst)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return "", nil, err
	}
	return text, buf.Bytes(), nil
}

func (g *Generator) randomText() string {
	n := g.Length
	if n <= 0 {
		n = 4
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[g.intn(len(alphabet))])
	}
	return b.String()
}

func (g *Generator) randomInk() color.RGBA {
	return color.RGBA{R: uint8(g.intn(120)), G: uint8(g.intn(120)), B: uint8(g.intn(120)), A: 255}
}

func (g *Generator) addNoise(img *image.RGBA) {
	bounds := img.Bounds()
	for i := 0; i < 4; i++ {
		ink := g.randomInk()
		x0, y0 := 0, g.intn(bounds.Dy())
		x1, y1 := bounds.Dx()-1, g.intn(bounds.Dy())
		steps := x1 - x0
		for s := 0; s <= steps; s++ {
			x := x0 + s
			y := y0 + (y1-y0)*s/steps
			img.Set(x, y, ink)
		}
	}
	for i := 0; i < bounds.Dx()*bounds.Dy()/30; i++ {
		img.Set(g.intn(bounds.Dx()), g.intn(bounds.Dy()), g.randomInk())
	}
}

func (g *Generator) intn(n int) int {
	if g.rnd != nil {
		return g.rnd.IntN(n)
	}
	return rand.IntN(n)
}
