package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
)

// ReadJSONResponse checks the status code and unmarshals a JSON response.
func ReadJSONResponse(t interface {
	Errorf(format string, args ...any)
	FailNow()
}, w *httptest.ResponseRecorder, status int, v any) {
	if w.Code != status {
		t.Errorf("expected status %d, got %d (%s)", status, w.Code, w.Body.String())
		t.FailNow()
	}

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Errorf("failed to decode JSON response: %v", err)
		t.FailNow()
	}
}

// ReadErrorResponse reads an error response from a ResponseRecorder.
func ReadErrorResponse(t interface {
	Errorf(format string, args ...any)
	FailNow()
}, w *httptest.ResponseRecorder) map[string]any {
	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Errorf("failed to decode error response: %v", err)
		t.FailNow()
	}
	return response
}

// CreateRequest creates an HTTP request with optional JSON body and headers.
func CreateRequest(method, path string, body any, headers map[string]string) *http.Request {
	var bodyReader *bytes.Reader
	if body != nil {
		jsonData, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonData)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// FilePart is one file of a multipart upload.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// CreateMultipartRequest creates a multipart/form-data request with the given
// form values and files.
func CreateMultipartRequest(method, path string, fields map[string]string, files ...FilePart) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Filename+`"`)
		header.Set("Content-Type", f.ContentType)
		part, _ := writer.CreatePart(header)
		_, _ = part.Write(f.Data)
	}
	_ = writer.Close()

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
