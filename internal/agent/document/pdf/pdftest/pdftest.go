// Package pdftest writes small single-page PDF files for tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Image is an image XObject placed on the page.
type Image struct {
	Dict string
	Data []byte
}

// Page describes the single page of a fixture.
type Page struct {
	// Text is drawn with Helvetica at the top of the page when set.
	Text   string
	Images []Image
}

// GrayFlate returns a w x h DeviceGray image compressed with FlateDecode.
func GrayFlate(t testing.TB, w, h int, shade byte) Image {
	t.Helper()

	pixels := bytes.Repeat([]byte{shade}, w*h)
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(pixels); err != nil {
		t.Fatalf("compress image: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress image: %v", err)
	}
	return Image{Dict: grayDict(w, h, "/FlateDecode"), Data: buf.Bytes()}
}

// CorruptFlate claims FlateDecode but carries bytes that are not zlib data.
func CorruptFlate(w, h int) Image {
	return Image{Dict: grayDict(w, h, "/FlateDecode"), Data: []byte("this is not a zlib stream")}
}

// JPEG returns a w x h DeviceRGB image stored with DCTDecode.
func JPEG(t testing.TB, w, h int) Image {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	dict := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode", w, h)
	return Image{Dict: dict, Data: buf.Bytes()}
}

func grayDict(w, h int, filter string) string {
	return fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8 /Filter %s", w, h, filter)
}

// Write renders page into a PDF under t.TempDir and returns its path.
// Objects are numbered: 1 catalog, 2 pages, 3 page, 4 content, 5 font,
// then one object per image starting at 6.
func Write(t testing.TB, page Page) string {
	t.Helper()

	var content strings.Builder
	if page.Text != "" {
		fmt.Fprintf(&content, "BT /F1 12 Tf 1 0 0 1 72 720 Tm (%s) Tj ET\n", escape(page.Text))
	}
	xobjects := make(map[string]int)
	for i := range page.Images {
		name := fmt.Sprintf("Im%d", i+1)
		xobjects[name] = 6 + i
		fmt.Fprintf(&content, "q 20 0 0 20 %d 100 cm /%s Do Q\n", 10+30*i, name)
	}

	resources := "/Font << /F1 5 0 R >>"
	if len(xobjects) > 0 {
		names := make([]string, 0, len(xobjects))
		for name := range xobjects {
			names = append(names, name)
		}
		sort.Strings(names)
		var refs strings.Builder
		for _, name := range names {
			fmt.Fprintf(&refs, " /%s %d 0 R", name, xobjects[name])
		}
		resources += " /XObject <<" + refs.String() + " >>"
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << " + resources + " >> /Contents 4 0 R >>",
		stream("", []byte(content.String())),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for _, img := range page.Images {
		objects = append(objects, stream(img.Dict, img.Data))
	}

	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := os.WriteFile(path, assemble(objects), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func stream(dict string, data []byte) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

func assemble(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
