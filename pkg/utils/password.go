package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	iterationRounds = 10000
	subkeyLength    = 256 / 8
	saltSize        = 128 / 8
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
)

// HashPassword derives an argon2id hash in the standard encoded format.
func HashPassword(password string) string {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		panic(err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	saltBase64 := base64.RawStdEncoding.EncodeToString(salt)
	hashBase64 := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$m=%d,t=%d,p=%d$%s$%s", argonMemory, argonTime, argonThreads, saltBase64, hashBase64)
}

func VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[1] != "argon2id" {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	derived := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))

	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// HashLegacyPassword writes the PBKDF2 format used by accounts imported
// from the previous system.
func HashLegacyPassword(password string) string {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		panic(err)
	}

	subkey := pbkdf2.Key([]byte(password), salt, iterationRounds, subkeyLength, sha256.New)

	payload := make([]byte, 0, 1+saltSize+subkeyLength)
	payload = append(payload, 0x1)
	payload = append(payload, salt...)
	payload = append(payload, subkey...)

	return base64.StdEncoding.EncodeToString(payload)
}

func VerifyLegacyPassword(password, hash string) bool {
	decodedHash, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}

	if len(decodedHash) != 1+saltSize+subkeyLength || decodedHash[0] != 0x1 {
		return false
	}

	salt := decodedHash[1 : saltSize+1]
	subkey := decodedHash[saltSize+1:]

	derivedKey := pbkdf2.Key([]byte(password), salt, iterationRounds, subkeyLength, sha256.New)

	return subtle.ConstantTimeCompare(derivedKey, subkey) == 1
}
