package db

import (
	"errors"

	"github.com/google/uuid"
)

var errDBUnavailable = errors.New("db unavailable")

func newID() string {
	return uuid.NewString()
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func strValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
