// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"math"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacewar/pkg/entity"
)

// spriteSize is the edge length in pixels of every generated sprite.
const spriteSize = 32

// AssetManager generates the sprite images for each drawable entity kind and
// turns them into textures once a GL context exists.
type AssetManager struct {
	images   map[entity.Kind]*image.NRGBA
	textures map[entity.Kind]common.Drawable
}

// NewAssetManager creates an asset manager with all sprite images built.
func NewAssetManager() *AssetManager {
	am := &AssetManager{
		images:   make(map[entity.Kind]*image.NRGBA),
		textures: make(map[entity.Kind]common.Drawable),
	}
	am.images[entity.KindShip] = am.createSprite(shipPixel)
	am.images[entity.KindAsteroid] = am.createSprite(discPixel(1))
	am.images[entity.KindProjectile] = am.createSprite(discPixel(0.5))
	am.images[entity.KindDebris] = am.createSprite(discPixel(0.25))
	return am
}

// LoadTextures uploads every sprite. It needs the window's GL context, so it
// runs from the scene's Setup.
func (am *AssetManager) LoadTextures() {
	for kind, img := range am.images {
		texture := common.NewImageObject(img)
		am.textures[kind] = common.NewTextureSingle(texture)
	}
}

// Image returns the sprite image for kind, or nil when kind has no sprite.
func (am *AssetManager) Image(kind entity.Kind) *image.NRGBA {
	return am.images[kind]
}

// Drawable returns the texture for kind. It is nil until LoadTextures ran.
func (am *AssetManager) Drawable(kind entity.Kind) common.Drawable {
	return am.textures[kind]
}

// createSprite renders a white mask from a pixel predicate over the unit
// square [-1, 1]^2 sampled at pixel centres.
func (am *AssetManager) createSprite(inside func(x, y float64) bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, spriteSize, spriteSize))
	for py := 0; py < spriteSize; py++ {
		for px := 0; px < spriteSize; px++ {
			x := (float64(px)+0.5)/spriteSize*2 - 1
			// image rows grow downward
			y := 1 - (float64(py)+0.5)/spriteSize*2
			if inside(x, y) {
				img.SetNRGBA(px, py, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

// shipPixel is an arrowhead pointing along +x, the heading at rotation zero.
func shipPixel(x, y float64) bool {
	if x < -0.8 || x > 1 {
		return false
	}
	// half-width shrinks linearly from the tail to the nose
	halfWidth := 0.8 * (1 - x) / 1.8
	if math.Abs(y) > halfWidth {
		return false
	}
	// notch in the tail
	return x > -0.8+0.5*math.Abs(y)/0.8
}

func discPixel(radius float64) func(x, y float64) bool {
	return func(x, y float64) bool {
		return x*x+y*y <= radius*radius
	}
}
