package gpu

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// boundTexture is a texture that can sit in a bind group. Generation changes
// whenever the view is recreated so programs know to rebuild their bind group.
type boundTexture interface {
	ID() uuid.UUID
	View() *wgpu.TextureView
	Generation() uint64
}

// LoadCubeFaces decodes six face images and resamples them to a common square size,
// the largest edge found among the faces.
func LoadCubeFaces(paths []string) ([6]*image.RGBA, error) {
	var faces [6]*image.RGBA
	if len(paths) != 6 {
		return faces, fmt.Errorf("cube map needs 6 faces, got %d", len(paths))
	}
	var decoded [6]image.Image
	size := 1
	for i, p := range paths {
		img, err := decodeImage(p)
		if err != nil {
			return faces, err
		}
		decoded[i] = img
		b := img.Bounds()
		size = max(size, b.Dx(), b.Dy())
	}
	for i, img := range decoded {
		faces[i] = toSquareRGBA(img, size)
	}
	return faces, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open face %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode face %s: %w", path, err)
	}
	return img, nil
}

func toSquareRGBA(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Texture is a sampled GPU texture, either a cube map or a plain 2D image.
type Texture struct {
	id      uuid.UUID
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *Texture) ID() uuid.UUID           { return t.id }
func (t *Texture) View() *wgpu.TextureView { return t.view }
func (t *Texture) Generation() uint64      { return 0 }
func (t *Texture) String() string          { return t.label }

func (t *Texture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

func newCubeTexture(device *wgpu.Device, queue *wgpu.Queue, label string, faces [6]*image.RGBA) (*Texture, error) {
	size := uint32(faces[0].Bounds().Dx())
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: size, Height: size, DepthOrArrayLayers: 6},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	for layer, face := range faces {
		err = queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: uint32(layer)},
				Aspect:   wgpu.TextureAspectAll,
			},
			face.Pix,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(face.Stride),
				RowsPerImage: size,
			},
			&wgpu.Extent3D{Width: size, Height: size, DepthOrArrayLayers: 1},
		)
		if err != nil {
			tex.Release()
			return nil, fmt.Errorf("upload face %d: %w", layer, err)
		}
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " view",
		Format:          wgpu.TextureFormatRGBA8Unorm,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 6,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &Texture{id: uuid.New(), label: label, texture: tex, view: view}, nil
}

// TargetFormat is the format of the offscreen image written by the trace pass.
const TargetFormat = wgpu.TextureFormatRGBA16Float

// RenderTarget is the offscreen image shared by the trace and show passes.
// Its identity survives resizes; only the generation changes.
type RenderTarget struct {
	id         uuid.UUID
	device     *wgpu.Device
	texture    *wgpu.Texture
	view       *wgpu.TextureView
	width      uint32
	height     uint32
	generation uint64
}

func newRenderTarget(device *wgpu.Device) *RenderTarget {
	return &RenderTarget{id: uuid.New(), device: device}
}

func (r *RenderTarget) ID() uuid.UUID           { return r.id }
func (r *RenderTarget) View() *wgpu.TextureView { return r.view }
func (r *RenderTarget) Generation() uint64      { return r.generation }
func (r *RenderTarget) Size() (uint32, uint32)  { return r.width, r.height }

// Resize recreates the image when the size changes. Zero sizes are ignored.
func (r *RenderTarget) Resize(width, height uint32) error {
	if width == 0 || height == 0 || (width == r.width && height == r.height && r.view != nil) {
		return nil
	}
	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Trace Target",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        TargetFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	r.Release()
	r.texture, r.view = tex, view
	r.width, r.height = width, height
	r.generation++
	return nil
}

func (r *RenderTarget) Release() {
	if r.view != nil {
		r.view.Release()
		r.view = nil
	}
	if r.texture != nil {
		r.texture.Release()
		r.texture = nil
	}
}
