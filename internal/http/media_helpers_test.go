package handlers_test

import (
	"bytes"
	"mime/multipart"

	"bellashop/internal/media"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func newStore(dir string) (*media.Store, error) { return media.NewStore(dir, 1<<20) }

// multipartProduct builds the admin form: text fields plus "images" files.
func multipartProduct(fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	for name, data := range files {
		fw, _ := w.CreateFormFile("images", name)
		fw.Write(data)
	}
	w.Close()
	return &body, w.FormDataContentType()
}
