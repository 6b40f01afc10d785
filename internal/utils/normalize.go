package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	numeroRe = regexp.MustCompile(`^[0-9]+$`)
	blocoRe  = regexp.MustCompile(`^[a-zA-Z0-9]{0,3}$`)
)

// NormalizeNumero valida e completa um número cadastral:
// aceita de 1 até width dígitos decimais e devolve a forma
// com zeros à esquerda (ex: "7" -> "00007" para width=5).
// Valida ANTES de normalizar.
func NormalizeNumero(raw string, width int) (string, error) {
	if raw == "" || len(raw) > width || !numeroRe.MatchString(raw) {
		return "", fmt.Errorf("numero must have 1 to %d digits", width)
	}
	return strings.Repeat("0", width-len(raw)) + raw, nil
}

// NormalizeName só passa para maiúsculas; sem trim nem colapso de espaços.
func NormalizeName(raw string) string {
	return strings.ToUpper(raw)
}

// NormalizeBloco aceita até 3 caracteres alfanuméricos e devolve em maiúsculas.
func NormalizeBloco(raw string) (string, error) {
	if !blocoRe.MatchString(raw) {
		return "", fmt.Errorf("bloco must have at most 3 alphanumeric characters")
	}
	return strings.ToUpper(raw), nil
}
