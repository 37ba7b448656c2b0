package services

import (
	"fmt"
	"strings"
	"time"

	"sareeapi/models"
)

// cipherAlphabet maps digit i to the i-th letter.
const cipherAlphabet = "BINOCULARS"

// CipherCost substitutes every decimal digit through the cipher alphabet. Other characters pass through.
func CipherCost(price string) string {
	var b strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			b.WriteByte(cipherAlphabet[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DeriveSKU builds {DDMMYYYYHHmm}-{vendor}-{cipher}{-NOS|-NNOS}.
// Only the integer part of the cost price is ciphered.
func DeriveSKU(vendorCode, costPrice string, productType models.ProductType, now time.Time) string {
	if costPrice == "" {
		costPrice = "0"
	}
	integer, _, _ := strings.Cut(costPrice, ".")
	code := CipherCost(integer)
	if code == "" {
		code = "000"
	}
	if vendorCode == "" {
		vendorCode = "UNK"
	}
	suffix := "-NNOS"
	if productType == models.ProductTypeNOS {
		suffix = "-NOS"
	}
	return fmt.Sprintf("%s-%s-%s%s", now.Format("020120061504"), vendorCode, code, suffix)
}
