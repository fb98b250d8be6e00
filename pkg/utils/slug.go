package utils

import (
	"log"

	"github.com/teris-io/shortid"
)

var sid *shortid.Shortid

func init() {
	var err error
	sid, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		log.Fatalf("Failed to initialize shortid: %v", err)
	}
}

// GenerateSlug returns a short unique identifier for public URLs.
func GenerateSlug() string {
	return sid.MustGenerate()
}
