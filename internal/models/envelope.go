package models

import (
	"encoding/json"
	"errors"
)

// Response is the normalized result of every upstream call.
type Response struct {
	// Status is the upstream HTTP status, 0 when no response arrived.
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Decode unmarshals result.data into dst.
func (r Response) Decode(dst any) error {
	if !r.Success {
		return ErrUpstreamRejected
	}
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.Result, &body); err != nil {
		return ErrUnparsableResponse
	}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return ErrEmptyResult
	}
	if err := json.Unmarshal(body.Data, dst); err != nil {
		return ErrUnparsableResponse
	}
	return nil
}

// DecodeList unmarshals a collection that some endpoints return as
// result.data and others as the bare result.
func (r Response) DecodeList(dst any) error {
	err := r.Decode(dst)
	if err == nil || errors.Is(err, ErrUpstreamRejected) {
		return err
	}
	if json.Unmarshal(r.Result, dst) != nil {
		return ErrUnparsableResponse
	}
	return nil
}
