package userapi

import (
	"encoding/json"
	"fmt"
)

// DefaultBaseURL is the UserService endpoint the form talks to when no
// override is configured.
const DefaultBaseURL = "https://prueba-crud-laravel.onrender.com"

// Wire keys accepted for the name field. Some deployments of the service
// use the Spanish column name.
const (
	NameFieldName   = "name"
	NameFieldNombre = "nombre"
)

// User is a record of the remote users collection. ID is assigned by the
// service and never changes.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts the name under either "name" or "nombre".
func (u *User) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Nombre string `json:"nombre"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	u.ID = wire.ID
	u.Name = wire.Name
	if u.Name == "" {
		u.Name = wire.Nombre
	}
	u.Email = wire.Email
	return nil
}

// UserInput is the body of create and update calls.
type UserInput struct {
	Name  string
	Email string
}

// body encodes the input using nameField as the key for the name.
func (in UserInput) body(nameField string) map[string]string {
	if nameField == "" {
		nameField = NameFieldName
	}
	return map[string]string{
		nameField: in.Name,
		"email":   in.Email,
	}
}

// ValidNameField reports whether field is a supported wire key.
func ValidNameField(field string) error {
	switch field {
	case NameFieldName, NameFieldNombre:
		return nil
	default:
		return fmt.Errorf("unsupported name field %q (want %q or %q)", field, NameFieldName, NameFieldNombre)
	}
}
