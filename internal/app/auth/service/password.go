package service

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the stored hashes were created with.
const bcryptCost = 12

func hashPassword(plaintext, pepper string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext+pepper), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func verifyPassword(plaintext, pepper, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext+pepper)) == nil
}
