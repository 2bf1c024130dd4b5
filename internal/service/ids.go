package service

import "github.com/google/uuid"

func newSlug() string {
	return uuid.NewString()
}
