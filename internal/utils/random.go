package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NewActivationToken возвращает 64-байтовый hex токен для активации email
func NewActivationToken() string {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand не должен падать
	}
	return hex.EncodeToString(b)
}

// NewOTP — шестизначный код для сброса пароля. В отличие от GenerateCode
// используется crypto/rand, так как код открывает смену учётных данных.
func NewOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
