package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/authcore/internal/model"
)

const (
	defaultArgon2Time    = 3
	defaultArgon2Memory  = 64 * 1024
	defaultArgon2Threads = 4
	argon2SaltLength     = 16
	argon2KeyLength      = 32

	// maxArgon2Memory caps the KiB a stored hash may demand on verify.
	maxArgon2Memory = 4 * 1024 * 1024
)

type argon2Params struct {
	time    uint32
	memory  uint32
	threads uint8
}

type argon2Scheme struct {
	params argon2Params
}

func newArgon2(opts Options) *argon2Scheme {
	p := argon2Params{
		time:    opts.Argon2Time,
		memory:  opts.Argon2Memory,
		threads: opts.Argon2Threads,
	}
	if p.time == 0 {
		p.time = defaultArgon2Time
	}
	if p.memory == 0 {
		p.memory = defaultArgon2Memory
	}
	if p.threads == 0 {
		p.threads = defaultArgon2Threads
	}
	if p.memory < 8*uint32(p.threads) {
		p.memory = 8 * uint32(p.threads)
	}
	return &argon2Scheme{params: p}
}

func (s *argon2Scheme) name() string {
	return AlgorithmArgon2
}

// The encoded hash is self-describing, so Salt stays empty.
func (s *argon2Scheme) hash(peppered string) (model.Credential, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return model.Credential{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(peppered), salt, s.params.time, s.params.memory, s.params.threads, argon2KeyLength)

	return model.Credential{
		Hash:       encodeArgon2(s.params, salt, key),
		Iterations: int(s.params.time),
	}, nil
}

func (s *argon2Scheme) verify(peppered string, cred model.Credential) (bool, error) {
	p, salt, stored, err := decodeArgon2(cred.Hash)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(peppered), salt, p.time, p.memory, p.threads, uint32(len(stored)))

	return subtle.ConstantTimeCompare(key, stored) == 1, nil
}

func (s *argon2Scheme) outdated(cred model.Credential) bool {
	p, _, _, err := decodeArgon2(cred.Hash)
	if err != nil {
		return true
	}
	return p != s.params
}

// encodeArgon2 renders the PHC string format:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
func encodeArgon2(p argon2Params, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func decodeArgon2(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argon2Params{}, nil, nil, fmt.Errorf("malformed argon2 hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("malformed argon2 version: %w", err)
	}
	if version != argon2.Version {
		return argon2Params{}, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var p argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("malformed argon2 parameters: %w", err)
	}
	if p.time < 1 || p.threads < 1 || p.memory < 8*uint32(p.threads) || p.memory > maxArgon2Memory {
		return argon2Params{}, nil, nil, fmt.Errorf("malformed argon2 parameters: m=%d,t=%d,p=%d", p.memory, p.time, p.threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("malformed argon2 salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return argon2Params{}, nil, nil, fmt.Errorf("malformed argon2 key")
	}

	return p, salt, key, nil
}
