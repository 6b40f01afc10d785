package utils

import "unicode"

// remove qualquer coisa que não seja dígito
func StripNonDigits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// pesos do primeiro e do segundo dígito verificador
var cnpjWeights1 = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
var cnpjWeights2 = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// ValidateCNPJ valida um CNPJ já normalizado (apenas dígitos):
// 14 dígitos, rejeita sequências repetidas (ex: 00000000000000)
// e confere os dois dígitos verificadores (soma ponderada mod 11).
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 {
		return false
	}
	allEq := true
	for i := 0; i < 14; i++ {
		if cnpj[i] < '0' || cnpj[i] > '9' {
			return false
		}
		if cnpj[i] != cnpj[0] {
			allEq = false
		}
	}
	if allEq {
		return false
	}

	dv1 := cnpjCheckDigit(cnpj[:12], cnpjWeights1[:])
	if int(cnpj[12]-'0') != dv1 {
		return false
	}
	dv2 := cnpjCheckDigit(cnpj[:13], cnpjWeights2[:])
	return int(cnpj[13]-'0') == dv2
}

// dígito = 0 se resto < 2, senão 11 - resto
func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}
