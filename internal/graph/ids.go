package graph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Identifier schemes
const (
	IDSchemeUUID5  = "uuid5"  // SHA-1 name-based UUID over book id and name
	IDSchemeUUID4  = "uuid4"  // random UUID
	IDSchemeNanoID = "nanoid" // random 21-character nanoid
)

// IDGenerator assigns a node identifier to a canonical name
type IDGenerator interface {
	ID(name string) (string, error)
}

// IDFunc adapts a function to IDGenerator
type IDFunc func(name string) (string, error)

// ID calls f
func (f IDFunc) ID(name string) (string, error) {
	return f(name)
}

// NewIDGenerator returns the generator for scheme. uuid5 identifiers are
// deterministic for a given book id and name; the other schemes are random.
func NewIDGenerator(scheme string, bookID int64) (IDGenerator, error) {
	switch strings.ToLower(scheme) {
	case "", IDSchemeUUID5:
		return IDFunc(func(name string) (string, error) {
			return NameUUID(bookID, name), nil
		}), nil
	case IDSchemeUUID4:
		return IDFunc(func(string) (string, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		}), nil
	case IDSchemeNanoID:
		return IDFunc(func(string) (string, error) {
			return gonanoid.New()
		}), nil
	default:
		return nil, fmt.Errorf("unknown id scheme: %q (supported: uuid5, uuid4, nanoid)", scheme)
	}
}

// NameUUID is the deterministic identifier of a character in a book
func NameUUID(bookID int64, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d:%s", bookID, name))).String()
}
