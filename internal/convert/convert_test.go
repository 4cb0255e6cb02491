package convert

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putU32(buf *bytes.Buffer, v uint32) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func putMagic(buf *bytes.Buffer, m string) {
	buf.WriteString(m)
	buf.WriteByte(0)
}

// buildTex writes a single-image, single-mip TEXB0002 texture.
func buildTex(t *testing.T, format, w, h uint32, payload []byte, compress bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	putMagic(&buf, "TEXV0005")
	putMagic(&buf, "TEXI0001")
	putU32(&buf, format)
	putU32(&buf, 0)
	putU32(&buf, w)
	putU32(&buf, h)
	putU32(&buf, w)
	putU32(&buf, h)
	putU32(&buf, 0)
	putMagic(&buf, "TEXB0002")
	putU32(&buf, 1)
	putU32(&buf, 1)
	putU32(&buf, w)
	putU32(&buf, h)

	data := payload
	if compress {
		dst := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, dst, nil)
		require.NoError(t, err)
		require.Greater(t, n, 0)
		data = dst[:n]
		putU32(&buf, 1)
	} else {
		putU32(&buf, 0)
	}
	putU32(&buf, uint32(len(payload)))
	putU32(&buf, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func solidRGBA(w, h int, c color.RGBA) []byte {
	pix := make([]byte, 0, w*h*4)
	for i := 0; i < w*h; i++ {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return pix
}

func TestDecodeTexRGBA(t *testing.T) {
	want := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for _, compress := range []bool{false, true} {
		data := buildTex(t, FormatRGBA8888, 16, 16, solidRGBA(16, 16, want), compress)

		img, hdr, err := DecodeTex(bytes.NewReader(data))
		require.NoError(t, err, "compress=%v", compress)
		assert.Equal(t, "TEXB0002", hdr.Container)
		assert.Equal(t, 16, img.Bounds().Dx())
		assert.Equal(t, want, color.RGBAModel.Convert(img.At(5, 7)))
	}
}

func TestDecodeTexR8(t *testing.T) {
	payload := bytes.Repeat([]byte{77}, 8*8)
	img, _, err := DecodeTex(bytes.NewReader(buildTex(t, FormatR8, 8, 8, payload, false)))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 77, G: 77, B: 77, A: 255}, color.RGBAModel.Convert(img.At(3, 3)))
}

func TestDecodeTexRG88(t *testing.T) {
	payload := bytes.Repeat([]byte{90, 180}, 8*8)
	img, _, err := DecodeTex(bytes.NewReader(buildTex(t, FormatRG88, 8, 8, payload, false)))
	require.NoError(t, err)
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(180)*0x101, a)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestDecodeTexRejects(t *testing.T) {
	_, _, err := DecodeTex(bytes.NewReader([]byte("NOTATEX0\x00garbage")))
	assert.ErrorContains(t, err, "invalid magic")

	_, _, err = DecodeTex(bytes.NewReader([]byte("TEXV0005\x00")))
	assert.ErrorContains(t, err, "read header")

	odd := buildTex(t, FormatRGBA8888, 8, 8, make([]byte, 13), false)
	_, _, err = DecodeTex(bytes.NewReader(odd))
	assert.ErrorContains(t, err, "unsupported format")
}

// Offsets of the raw and stored size fields in a buildTex header.
const (
	rawSizeOffset = 75
	sizeOffset    = 79
)

func patchU32(data []byte, at int, v uint32) []byte {
	out := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(out[at:], v)
	return out
}

func TestDecodeTexBoundsHeaderSizes(t *testing.T) {
	payload := solidRGBA(4, 4, color.RGBA{A: 255})
	good := buildTex(t, FormatRGBA8888, 4, 4, payload, false)
	require.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(good[sizeOffset:]))

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"huge stored size", patchU32(good, sizeOffset, 0xFFFFFFF0), "mip size"},
		{"huge lz4 size", patchU32(buildTex(t, FormatRGBA8888, 4, 4, payload, true), rawSizeOffset, 0xFFFFFFFF), "lz4 size"},
		{"huge mip", buildTex(t, FormatRGBA8888, 1<<20, 1<<20, payload, false), "invalid mip dimensions"},
		{"empty mip", buildTex(t, FormatRGBA8888, 0, 4, payload, false), "invalid mip dimensions"},
		{"truncated payload", good[:len(good)-10], "read mip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeTex(bytes.NewReader(tt.data))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestConvertTextureWritesCache(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wood.tex")
	require.NoError(t, os.WriteFile(src, buildTex(t, FormatRGBA8888, 4, 4, solidRGBA(4, 4, color.RGBA{R: 9, A: 255}), false), 0o644))

	prev := TextureOutDir
	TextureOutDir = ""
	t.Cleanup(func() { TextureOutDir = prev })

	out, err := ConvertTexture(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "wood.png"), out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dy())
}

type pkgFile struct {
	name string
	data string
}

func buildPkg(files []pkgFile) []byte {
	var buf bytes.Buffer
	putStr := func(s string) {
		putU32(&buf, uint32(len(s)))
		buf.WriteString(s)
	}
	putStr("PKGV0001")
	putU32(&buf, uint32(len(files)))
	offset := uint32(0)
	for _, f := range files {
		putStr(f.name)
		putU32(&buf, offset)
		putU32(&buf, uint32(len(f.data)))
		offset += uint32(len(f.data))
	}
	for _, f := range files {
		buf.WriteString(f.data)
	}
	return buf.Bytes()
}

func TestExtractPkg(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "bundle.pkg")
	require.NoError(t, os.WriteFile(pkg, buildPkg([]pkgFile{
		{"levels/attic.yaml", "name: attic\n"},
		{"scripts/attic_door.tengo", "on_enter := func(e) {}\n"},
	}), 0o644))

	out := filepath.Join(dir, "out")
	require.NoError(t, ExtractPkg(pkg, out))

	data, err := os.ReadFile(filepath.Join(out, "levels", "attic.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "name: attic\n", string(data))

	data, err = os.ReadFile(filepath.Join(out, "scripts", "attic_door.tengo"))
	require.NoError(t, err)
	assert.Equal(t, "on_enter := func(e) {}\n", string(data))
}

func TestExtractPkgRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "evil.pkg")
	require.NoError(t, os.WriteFile(pkg, buildPkg([]pkgFile{{"../escape.txt", "x"}}), 0o644))

	err := ExtractPkg(pkg, filepath.Join(dir, "out"))
	assert.ErrorContains(t, err, "escapes output directory")
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
}

func TestReadPkgIndexTruncated(t *testing.T) {
	data := buildPkg([]pkgFile{{"a.txt", "hello"}})
	_, _, err := ReadPkgIndex(bytes.NewReader(data[:12]))
	assert.Error(t, err)
}

func TestBulkConvertTextures(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	for _, name := range []string{"a.tex", "sub/b.tex", "sub/c.tex"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, buildTex(t, FormatRGBA8888, 4, 4, solidRGBA(4, 4, color.RGBA{G: 1, A: 255}), false), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.tex"), []byte("junk"), 0o644))

	prev := TextureOutDir
	t.Cleanup(func() { TextureOutDir = prev })

	n, err := BulkConvertTextures(context.Background(), root, out, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}
