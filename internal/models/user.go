package models

import (
	"bytes"
	"encoding/json"
)

// ID accepts both numeric and string identifiers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	*id = ID(s)
	return err
}

// Text is a string field the upstream may also send as a number, such as a
// NIF or a phone number.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	*t = Text(s)
	return err
}

func (t Text) String() string {
	return string(t)
}

// scalarString reads a JSON string or number as text; null reads as empty.
func scalarString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if string(data) == "null" {
		return "", nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Balance  Amount `json:"balance"`
	Phone    Text   `json:"phone"`
	Email    string `json:"email"`
}

type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Credentials
	RememberMe bool `json:"remember_me"`
}

type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type Preferences map[string]any
