package password

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/authcore/internal/model"
)

type bcryptScheme struct {
	cost int
}

func newBcrypt(opts Options) *bcryptScheme {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptScheme{cost: cost}
}

func (s *bcryptScheme) name() string {
	return AlgorithmBcrypt
}

// prehash reduces the peppered password to a fixed 44-byte input, below
// bcrypt's 72-byte limit. Base64 keeps NUL bytes out of the input.
func prehash(peppered string) []byte {
	sum := sha256.Sum256([]byte(peppered))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// The salt is embedded in the bcrypt output, so Salt mirrors Hash.
func (s *bcryptScheme) hash(peppered string) (model.Credential, error) {
	out, err := bcrypt.GenerateFromPassword(prehash(peppered), s.cost)
	if err != nil {
		return model.Credential{}, err
	}

	return model.Credential{
		Hash:       string(out),
		Salt:       string(out),
		Iterations: s.cost,
	}, nil
}

func (s *bcryptScheme) verify(peppered string, cred model.Credential) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(cred.Hash), prehash(peppered))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func (s *bcryptScheme) outdated(cred model.Credential) bool {
	cost, err := bcrypt.Cost([]byte(cred.Hash))
	if err != nil {
		return true
	}
	return cost != s.cost
}
