// Package password hashes and verifies user passwords.
//
// A Hasher is built once from Options. It hashes new passwords with the
// configured algorithm and current pepper, and verifies stored credentials
// with whichever algorithm and pepper version produced them, so settings can
// be rotated without invalidating existing passwords.
package password

import (
	"fmt"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/model"
)

// Supported algorithms.
const (
	AlgorithmPBKDF2 = "pbkdf2"
	AlgorithmBcrypt = "bcrypt"
	AlgorithmArgon2 = "argon2"
)

// Options configures a Hasher.
type Options struct {
	Algorithm string
	// PBKDF2.
	SaltLength int
	HashLength int
	Iterations int
	Digest     string
	// Bcrypt.
	BcryptCost int
	// Argon2id.
	Argon2Time    uint32
	Argon2Memory  uint32
	Argon2Threads uint8
	// Pepper is appended to every password before hashing.
	Pepper        string
	PepperVersion string
	// PreviousPeppers maps retired pepper versions to their secrets.
	PreviousPeppers map[string]string
}

// scheme is one hashing algorithm.
type scheme interface {
	name() string
	hash(peppered string) (model.Credential, error)
	verify(peppered string, cred model.Credential) (bool, error)
	outdated(cred model.Credential) bool
}

// Hasher hashes and verifies passwords. It holds no mutable state and is
// safe for concurrent use.
type Hasher struct {
	current       scheme
	schemes       map[string]scheme
	pepperVersion string
	peppers       map[string]string
}

// New builds a Hasher. An unknown algorithm or digest is a configuration error.
func New(opts Options) (*Hasher, error) {
	pbkdf2Scheme := newPBKDF2(opts)
	if opts.Algorithm == AlgorithmPBKDF2 {
		if _, err := digestFunc(pbkdf2Scheme.digest); err != nil {
			return nil, err
		}
	}

	schemes := map[string]scheme{
		AlgorithmPBKDF2: pbkdf2Scheme,
		AlgorithmBcrypt: newBcrypt(opts),
		AlgorithmArgon2: newArgon2(opts),
	}

	current, ok := schemes[opts.Algorithm]
	if !ok {
		return nil, apierrors.NewErrUnsupportedAlgorithm(opts.Algorithm)
	}

	peppers := make(map[string]string, len(opts.PreviousPeppers)+1)
	for version, secret := range opts.PreviousPeppers {
		peppers[version] = secret
	}
	peppers[opts.PepperVersion] = opts.Pepper

	return &Hasher{
		current:       current,
		schemes:       schemes,
		pepperVersion: opts.PepperVersion,
		peppers:       peppers,
	}, nil
}

// Algorithm returns the name of the algorithm used for new hashes.
func (h *Hasher) Algorithm() string {
	return h.current.name()
}

// Hash hashes password with the current algorithm and pepper.
func (h *Hasher) Hash(password string) (model.Credential, error) {
	cred, err := h.current.hash(password + h.peppers[h.pepperVersion])
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to hash password: %w", err)
	}
	cred.Algorithm = h.current.name()
	cred.PepperVersion = h.pepperVersion

	return cred, nil
}

// Verify reports whether password matches cred.
func (h *Hasher) Verify(password string, cred model.Credential) (bool, error) {
	s, err := h.schemeFor(cred)
	if err != nil {
		return false, err
	}

	pepper, ok := h.peppers[cred.PepperVersion]
	if !ok {
		return false, apierrors.NewErrUnknownPepperVersion(cred.PepperVersion)
	}

	match, err := s.verify(password+pepper, cred)
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}

	return match, nil
}

// NeedsRehash reports whether cred was produced with settings other than the
// current ones.
func (h *Hasher) NeedsRehash(cred model.Credential) bool {
	s, err := h.schemeFor(cred)
	if err != nil {
		return true
	}
	if s.name() != h.current.name() || cred.PepperVersion != h.pepperVersion {
		return true
	}
	return s.outdated(cred)
}

func (h *Hasher) schemeFor(cred model.Credential) (scheme, error) {
	if cred.Algorithm == "" {
		return h.current, nil
	}
	s, ok := h.schemes[cred.Algorithm]
	if !ok {
		return nil, apierrors.NewErrUnsupportedAlgorithm(cred.Algorithm)
	}
	return s, nil
}
