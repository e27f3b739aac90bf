package password

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/model"
)

const (
	defaultSaltLength = 16
	defaultHashLength = 64
	defaultIterations = 100000
	defaultDigest     = "sha512"
)

func digestFunc(name string) (func() hash.Hash, error) {
	switch name {
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	case "sha512":
		return sha512.New, nil
	default:
		return nil, apierrors.NewErrUnsupportedAlgorithm("pbkdf2-" + name)
	}
}

type pbkdf2Scheme struct {
	saltLength int
	hashLength int
	iterations int
	digest     string
}

func newPBKDF2(opts Options) *pbkdf2Scheme {
	s := &pbkdf2Scheme{
		saltLength: opts.SaltLength,
		hashLength: opts.HashLength,
		iterations: opts.Iterations,
		digest:     opts.Digest,
	}
	if s.saltLength <= 0 {
		s.saltLength = defaultSaltLength
	}
	if s.hashLength <= 0 {
		s.hashLength = defaultHashLength
	}
	if s.iterations <= 0 {
		s.iterations = defaultIterations
	}
	if s.digest == "" {
		s.digest = defaultDigest
	}
	return s
}

func (s *pbkdf2Scheme) name() string {
	return AlgorithmPBKDF2
}

func (s *pbkdf2Scheme) hash(peppered string) (model.Credential, error) {
	h, err := digestFunc(s.digest)
	if err != nil {
		return model.Credential{}, err
	}

	raw := make([]byte, s.saltLength)
	if _, err := rand.Read(raw); err != nil {
		return model.Credential{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := base64.StdEncoding.EncodeToString(raw)

	key := pbkdf2.Key([]byte(peppered), []byte(salt), s.iterations, s.hashLength, h)

	return model.Credential{
		Hash:       hex.EncodeToString(key),
		Salt:       salt,
		Iterations: s.iterations,
		Digest:     s.digest,
	}, nil
}

func (s *pbkdf2Scheme) verify(peppered string, cred model.Credential) (bool, error) {
	digest := cred.Digest
	if digest == "" {
		digest = s.digest
	}
	h, err := digestFunc(digest)
	if err != nil {
		return false, err
	}

	stored, err := hex.DecodeString(cred.Hash)
	if err != nil || len(stored) == 0 {
		return false, fmt.Errorf("malformed pbkdf2 hash")
	}
	if cred.Iterations <= 0 {
		return false, fmt.Errorf("malformed pbkdf2 iteration count %d", cred.Iterations)
	}

	key := pbkdf2.Key([]byte(peppered), []byte(cred.Salt), cred.Iterations, len(stored), h)

	return subtle.ConstantTimeCompare(key, stored) == 1, nil
}

func (s *pbkdf2Scheme) outdated(cred model.Credential) bool {
	return cred.Iterations != s.iterations || cred.Digest != s.digest
}
