// Package datatype provides the request-body encoding strategies used when
// sending probe requests.
package datatype

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"mime/multipart"
	"net/url"
	"sort"
)

// DataType is one request-body encoding strategy.
type DataType interface {
	// Name returns the registry key of the encoder.
	Name() string
	// ContentType returns the Content-Type header value to send.
	ContentType() string
	// Encode serializes the parameter set into a request body.
	Encode(params map[string]string) ([]byte, error)
}

// Builtins returns the compiled-in encoder set, enumerated by the manifest
// source at startup.
func Builtins() []DataType {
	return []DataType{
		formType{},
		jsonType{},
		multipartType{},
		xmlType{},
		plainType{},
	}
}

type formType struct{}

func (formType) Name() string        { return "form" }
func (formType) ContentType() string { return "application/x-www-form-urlencoded" }

func (formType) Encode(params map[string]string) ([]byte, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return []byte(values.Encode()), nil
}

type jsonType struct{}

func (jsonType) Name() string        { return "json" }
func (jsonType) ContentType() string { return "application/json" }

func (jsonType) Encode(params map[string]string) ([]byte, error) {
	return json.Marshal(params)
}

type multipartType struct{}

func (multipartType) Name() string { return "multipart" }

// boundary is fixed so ContentType and Encode agree without shared state.
const multipartBoundary = "sstimapformboundary"

func (multipartType) ContentType() string {
	return "multipart/form-data; boundary=" + multipartBoundary
}

func (multipartType) Encode(params map[string]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.SetBoundary(multipartBoundary); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, params[k]); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type xmlType struct{}

func (xmlType) Name() string        { return "xml" }
func (xmlType) ContentType() string { return "application/xml" }

func (xmlType) Encode(params map[string]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString("<request>")
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		elem := struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		}{XMLName: xml.Name{Local: k}, Value: params[k]}
		data, err := xml.Marshal(elem)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteString("</request>")
	return buf.Bytes(), nil
}

type plainType struct{}

func (plainType) Name() string        { return "plain" }
func (plainType) ContentType() string { return "text/plain" }

func (plainType) Encode(params map[string]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(params[k])
	}
	return buf.Bytes(), nil
}
