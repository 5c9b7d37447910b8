package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/storage"
)

const (
	maxMultipartMemory = 32 << 20
	maxJSONBodyBytes   = 1 << 20
)

// contentForm is a parsed admin write request: the JSON input plus any
// uploaded files.
type contentForm struct {
	image          *storage.File
	gallery        []storage.File
	deleteOldImage bool
	files          []multipart.File
	form           *multipart.Form
}

// close releases the open upload handles and any spooled temp files.
func (f *contentForm) close() {
	for _, file := range f.files {
		_ = file.Close()
	}
	if f.form != nil {
		_ = f.form.RemoveAll()
	}
}

// parseContentForm decodes an admin write body into input. multipart/form-data
// carries the input as JSON in the "data" field; a plain application/json body
// is accepted for writes without files.
func parseContentForm(w http.ResponseWriter, r *http.Request, maxUploadBytes int64, input any) (*contentForm, error) {
	if maxUploadBytes <= 0 {
		maxUploadBytes = storage.DefaultMaxUploadBytes
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "application/json":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(input); err != nil {
			return nil, decodeError(err, maxJSONBodyBytes)
		}
		return &contentForm{}, nil
	case "multipart/form-data":
	default:
		return nil, errs.NewUnsupportedMediaTypeError(mediaType, []string{"multipart/form-data", "application/json"})
	}

	// One image plus a gallery, each bounded by the upload limit.
	limit := maxUploadBytes*16 + maxJSONBodyBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, decodeError(err, limit)
	}

	cf := &contentForm{form: r.MultipartForm}

	data := r.MultipartForm.Value["data"]
	if len(data) == 0 || data[0] == "" {
		cf.close()
		return nil, errs.NewMissingRequiredFieldError("data")
	}
	if err := json.Unmarshal([]byte(data[0]), input); err != nil {
		cf.close()
		return nil, errs.NewMalformedPayloadError("json", err)
	}

	if values := r.MultipartForm.Value["delete_old_image"]; len(values) > 0 {
		cf.deleteOldImage, _ = strconv.ParseBool(values[0])
	}

	if headers := r.MultipartForm.File["image"]; len(headers) > 0 {
		file, err := cf.open(headers[0])
		if err != nil {
			cf.close()
			return nil, err
		}
		cf.image = &file
	}

	for _, header := range r.MultipartForm.File["gallery"] {
		file, err := cf.open(header)
		if err != nil {
			cf.close()
			return nil, err
		}
		cf.gallery = append(cf.gallery, file)
	}

	return cf, nil
}

func (f *contentForm) open(header *multipart.FileHeader) (storage.File, error) {
	file, err := header.Open()
	if err != nil {
		return storage.File{}, errs.NewMalformedPayloadError("multipart", err)
	}
	f.files = append(f.files, file)
	return storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, nil
}

func decodeError(err error, limit int64) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errs.NewMaxBodySizeExceededError(limit)
	}
	if errors.Is(err, io.EOF) {
		return errs.NewMalformedPayloadError("json", errors.New("empty body"))
	}
	return errs.NewMalformedPayloadError("body", err)
}

// decodeJSON reads a small JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return decodeError(err, maxJSONBodyBytes)
	}
	return nil
}
