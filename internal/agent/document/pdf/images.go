package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/feichai0017/pdftext/internal/agent/document"
)

var disableConfigDir sync.Once

// ImageSource enumerates embedded images with pdfcpu.
type ImageSource struct {
	conf *model.Configuration
}

func NewImageSource() *ImageSource {
	// pdfcpu would otherwise create a config dir under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &ImageSource{conf: conf}
}

func (s *ImageSource) Open(ctx context.Context, path string) (doc document.ImageDocument, err error) {
	defer recoverParser(&err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}

	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), s.conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}
	return &imageDocument{ctx: pctx}, nil
}

type imageDocument struct {
	ctx *model.Context
}

func (d *imageDocument) PageCount() int {
	return d.ctx.PageCount
}

// PageImages returns the image XObjects of a page in object number order.
// A failure to decode one image is recorded on that image only.
func (d *imageDocument) PageImages(pageNr int) (images []document.EmbeddedImage, err error) {
	defer recoverParser(&err)

	if pageNr < 1 || pageNr > d.ctx.PageCount {
		return nil, fmt.Errorf("enumerate images: page %d out of range", pageNr)
	}

	objNrs := pdfcpu.ImageObjNrs(d.ctx, pageNr)
	sort.Ints(objNrs)

	images = make([]document.EmbeddedImage, 0, len(objNrs))
	for i, objNr := range objNrs {
		embedded := document.EmbeddedImage{
			Page:  pageNr,
			Index: i + 1,
			ObjNr: objNr,
		}
		embedded.Format, embedded.Data, embedded.Err = d.extract(pageNr, objNr)
		images = append(images, embedded)
	}
	return images, nil
}

func (d *imageDocument) extract(pageNr, objNr int) (format string, data []byte, err error) {
	defer recoverParser(&err)

	obj, ok := d.ctx.Optimize.ImageObjects[objNr]
	if !ok || obj == nil || obj.ImageDict == nil {
		return "", nil, fmt.Errorf("image object %d not found", objNr)
	}

	img, err := pdfcpu.ExtractImage(d.ctx, obj.ImageDict, false, obj.ResourceNames[pageNr-1], objNr, false)
	if err != nil {
		return "", nil, fmt.Errorf("decode image object %d: %w", objNr, err)
	}
	if img == nil || img.Reader == nil {
		return "", nil, fmt.Errorf("image object %d has an unsupported encoding", objNr)
	}

	data, err = io.ReadAll(img)
	if err != nil {
		return img.FileType, nil, fmt.Errorf("read image object %d: %w", objNr, err)
	}
	return img.FileType, data, nil
}

func (d *imageDocument) Close() error {
	d.ctx = nil
	return nil
}
