package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

// TextureOutDir is where converted PNGs are cached. Empty means next to the
// source .tex file.
var TextureOutDir string

// Texture payload formats as stored in the TEXV0005 header.
const (
	FormatRGBA8888 = 0
	FormatDXT5     = 4
	FormatDXT3     = 6
	FormatDXT1     = 7
	FormatRG88     = 8
	FormatR8       = 9
)

// MaxTexDimension bounds mip width and height read from a header.
const MaxTexDimension = 16384

// texReader keeps the first read error so the header walk stays linear.
type texReader struct {
	r   io.Reader
	err error
}

func (t *texReader) u32() uint32 {
	var v uint32
	if t.err == nil {
		t.err = binary.Read(t.r, binary.LittleEndian, &v)
	}
	return v
}

// magic reads an 8-byte tag plus its NUL terminator.
func (t *texReader) magic() string {
	if t.err != nil {
		return ""
	}
	b := make([]byte, 9)
	if _, err := io.ReadFull(t.r, b); err != nil {
		t.err = err
		return ""
	}
	return string(bytes.Trim(b, "\x00"))
}

// bytes reads n bytes, growing the buffer only as data actually arrives.
func (t *texReader) bytes(n uint32) []byte {
	if t.err != nil {
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(t.r, int64(n)))
	if err != nil {
		t.err = err
		return nil
	}
	if len(b) != int(n) {
		t.err = io.ErrUnexpectedEOF
		return nil
	}
	return b
}

// TexHeader is the part of a .tex file needed to pick a decoder.
type TexHeader struct {
	Format    uint32
	Width     uint32
	Height    uint32
	Container string
}

// DecodeTex reads the first mip of the first image in a TEXV0005 stream.
func DecodeTex(r io.Reader) (image.Image, TexHeader, error) {
	t := &texReader{r: r}
	var hdr TexHeader

	if m := t.magic(); m != "TEXV0005" {
		if t.err != nil {
			return nil, hdr, fmt.Errorf("convert: read magic: %w", t.err)
		}
		return nil, hdr, fmt.Errorf("convert: invalid magic: %s", m)
	}
	t.magic()

	hdr.Format = t.u32()
	t.u32() // flags
	t.u32() // texture width
	t.u32() // texture height
	hdr.Width = t.u32()
	hdr.Height = t.u32()
	t.u32()

	hdr.Container = t.magic()
	imageCount := t.u32()
	if hdr.Container == "TEXB0003" {
		t.u32()
	}
	if t.err != nil {
		return nil, hdr, fmt.Errorf("convert: read header: %w", t.err)
	}
	if imageCount == 0 {
		return nil, hdr, fmt.Errorf("convert: no image found in texture")
	}

	mipCount := t.u32()
	if mipCount == 0 && t.err == nil {
		return nil, hdr, fmt.Errorf("convert: image has no mipmaps")
	}
	mW := t.u32()
	mH := t.u32()
	var compressed bool
	var rawSize uint32
	if hdr.Container != "TEXB0001" {
		compressed = t.u32() == 1
		rawSize = t.u32()
	}
	size := t.u32()
	if t.err != nil {
		return nil, hdr, fmt.Errorf("convert: read mip: %w", t.err)
	}
	if mW == 0 || mH == 0 || mW > MaxTexDimension || mH > MaxTexDimension {
		return nil, hdr, fmt.Errorf("convert: invalid mip dimensions %dx%d", mW, mH)
	}
	// Uncompressed RGBA is the largest payload any format can have.
	maxRaw := int(mW) * int(mH) * 4
	maxSize := maxRaw
	if compressed {
		maxSize = lz4.CompressBlockBound(maxRaw)
		if int64(rawSize) > int64(maxRaw) {
			return nil, hdr, fmt.Errorf("convert: lz4 size %d exceeds %dx%d mip", rawSize, mW, mH)
		}
	}
	if int64(size) > int64(maxSize) {
		return nil, hdr, fmt.Errorf("convert: mip size %d exceeds %dx%d mip", size, mW, mH)
	}
	data := t.bytes(size)
	if t.err != nil {
		return nil, hdr, fmt.Errorf("convert: read mip: %w", t.err)
	}

	if compressed {
		utils.Debug("    Decompressing LZ4: %d -> %d", size, rawSize)
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(data, raw)
		if err != nil {
			return nil, hdr, fmt.Errorf("convert: lz4: %w", err)
		}
		data = raw[:n]
	}

	pix, err := decodePixels(data, hdr.Format, mW, mH)
	if err != nil {
		return nil, hdr, err
	}

	img := &image.RGBA{
		Pix:    pix,
		Stride: int(mW * 4),
		Rect:   image.Rect(0, 0, int(mW), int(mH)),
	}
	w, h := hdr.Width, hdr.Height
	if w == 0 || w > mW {
		w = mW
	}
	if h == 0 || h > mH {
		h = mH
	}
	return img.SubImage(image.Rect(0, 0, int(w), int(h))), hdr, nil
}

// decodePixels expects w and h already bounded by MaxTexDimension.
func decodePixels(data []byte, format, w, h uint32) ([]byte, error) {
	n := len(data)
	pixels := int(w) * int(h)
	blocks := ((int(w) + 3) / 4) * ((int(h) + 3) / 4)

	switch {
	case n == pixels*4:
		utils.Debug("    Type: RGBA")
		return data, nil
	case format == FormatR8 && n == pixels:
		utils.Debug("    Type: R8")
		pix := make([]byte, pixels*4)
		for i, v := range data {
			pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = v, v, v, 255
		}
		return pix, nil
	case format == FormatRG88 && n == pixels*2:
		utils.Debug("    Type: RG88")
		pix := make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			l, a := data[i*2], data[i*2+1]
			pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = l, l, l, a
		}
		return pix, nil
	case n == blocks*16:
		utils.Debug("    Type: DXT5")
		pix, err := dxt.DecodeDXT5(data, uint(w), uint(h))
		if err != nil {
			return nil, fmt.Errorf("convert: dxt5: %w", err)
		}
		return pix, nil
	case n == blocks*8:
		utils.Debug("    Type: DXT1")
		pix, err := dxt.DecodeDXT1(data, uint(w), uint(h))
		if err != nil {
			return nil, fmt.Errorf("convert: dxt1: %w", err)
		}
		return pix, nil
	}
	return nil, fmt.Errorf("convert: unsupported format %d with size %d for %dx%d", format, n, w, h)
}

func DecodeTexFile(path string) (image.Image, error) {
	utils.Debug("Decoding texture: %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("convert: open %s: %w", path, err)
	}
	defer f.Close()

	img, hdr, err := DecodeTex(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	utils.Debug("    Format: %d, Size: %dx%d, Container: %s", hdr.Format, hdr.Width, hdr.Height, hdr.Container)
	return img, nil
}

// CachePath is where the PNG for a .tex file lives.
func CachePath(texPath string) string {
	if TextureOutDir != "" {
		return filepath.Join(TextureOutDir, strings.TrimSuffix(filepath.Base(texPath), ".tex")+".png")
	}
	return strings.TrimSuffix(texPath, ".tex") + ".png"
}

// ConvertTexture decodes a .tex into its PNG cache unless it is already there.
func ConvertTexture(texPath string) (string, error) {
	pngPath := CachePath(texPath)
	if _, err := os.Stat(pngPath); err == nil {
		return pngPath, nil
	}

	img, err := DecodeTexFile(texPath)
	if err != nil {
		return "", err
	}

	f, err := os.Create(pngPath)
	if err != nil {
		return "", fmt.Errorf("convert: create %s: %w", pngPath, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(pngPath)
		return "", fmt.Errorf("convert: encode %s: %w", pngPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("convert: close %s: %w", pngPath, err)
	}
	return pngPath, nil
}

// LoadTextureNative uploads an image file to the GPU. .tex files go through
// the PNG cache first. Needs an open window.
func LoadTextureNative(path string) (*rl.Texture2D, error) {
	if strings.EqualFold(filepath.Ext(path), ".tex") {
		pngPath, err := ConvertTexture(path)
		if err != nil {
			return nil, err
		}
		path = pngPath
	}

	tex := rl.LoadTexture(path)
	if !rl.IsTextureValid(tex) {
		return nil, fmt.Errorf("convert: raylib could not load %s", path)
	}
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	return &tex, nil
}
