package models

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Image is a hosted picture: where to fetch it and the id the image host
// needs to delete it again.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

func (i Image) IsZero() bool {
	return i.URL == "" && i.PublicID == ""
}

// UnmarshalJSON accepts either {"url": ..., "publicId": ...} or a bare URL
// string, since cart payloads carry both shapes.
func (i *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*i = Image{URL: url}
		return nil
	}
	type plain Image
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Image(p)
	return nil
}

// NewID returns the identifier used for every top-level record.
func NewID() string {
	return uuid.NewString()
}
