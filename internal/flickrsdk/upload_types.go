package flickrsdk

import "encoding/xml"

// Visibility of an uploaded photo. The zero value is fully private.
type Visibility struct {
	Public bool
	Friend bool
	Family bool
}

// UploadParams represents the parameters for uploading a new photo
type UploadParams struct {
	FilePath   string
	Title      string
	Tags       []string
	Visibility Visibility
	Callback   func(uploadedBytes int64, totalBytes int64)
}

// ReplaceParams represents the parameters for replacing the file of an existing photo
type ReplaceParams struct {
	FilePath string
	PhotoID  string
	Callback func(uploadedBytes int64, totalBytes int64)
}

// uploadResponse is the XML reply of the upload and replace endpoints.
type uploadResponse struct {
	XMLName xml.Name `xml:"rsp"`
	Stat    string   `xml:"stat,attr"`
	PhotoID string   `xml:"photoid"`
	Err     *struct {
		Code int    `xml:"code,attr"`
		Msg  string `xml:"msg,attr"`
	} `xml:"err"`
}
