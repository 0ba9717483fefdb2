/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is used to mint process-unique connection IDs and collision-resistant names
for uploaded files.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// ConnIDLength is the length of the random part of a connection ID.
	ConnIDLength = 12

	// ConnIDPrefix marks identifiers minted for live connections.
	ConnIDPrefix = "conn_"

	// DefaultUploadExt is applied when an uploaded file name carries no extension.
	DefaultUploadExt = ".png"
)

// ConnID generates a process-unique connection identifier using crypto/rand.
func ConnID() (string, error) {
	result := make([]byte, ConnIDLength)

	for i := range ConnIDLength {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for connection id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return ConnIDPrefix + string(result), nil
}

// UploadName derives a unique storage name for an uploaded file: a random UUID
// plus the original file's extension, defaulting to DefaultUploadExt when the
// name carries none.
func UploadName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || ext == "." {
		ext = DefaultUploadExt
	}

	return uuid.New().String() + ext
}
