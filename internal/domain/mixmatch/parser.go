// Package mixmatch resuelve nombres de producto "arma tu combinación":
// un producto base más addons elegidos por el cliente, codificados en el
// nombre de la línea de venta (ej. "Mini Croffle with Choco Flakes").
// Todo el paquete es puro: sin I/O y determinista.
package mixmatch

import "strings"

// Productos base conocidos, de nombre más largo a más corto para que el
// match por contención resuelva siempre al más específico.
var baseProducts = []string{
	"Croffle Overload",
	"Regular Croffle",
	"Mini Croffle",
}

// ParsedProduct es el resultado de parsear un nombre de producto. Transitorio:
// existe solo durante el procesamiento de una venta, nunca se persiste.
type ParsedProduct struct {
	BaseName      string
	Addons        []Addon
	OriginalName  string
	IsMixAndMatch bool
}

// Parse descompone un nombre de producto en base + addons. Es una función
// total: devuelve un resultado para cualquier string de entrada.
//
// Un nombre es mix-and-match si contiene un conector ("with"/"and") o el
// nombre de un producto base conocido. Si no lo es, el nombre completo es el
// base y no hay addons.
func Parse(name string) ParsedProduct {
	trimmed := strings.TrimSpace(name)
	parsed := ParsedProduct{OriginalName: name, BaseName: trimmed}

	if !isMixAndMatch(trimmed) {
		return parsed
	}
	parsed.IsMixAndMatch = true

	// Base conocido contenido en el nombre: el más largo gana.
	if base := matchBaseProduct(trimmed); base != "" {
		parsed.BaseName = base
		remainder := remainderAfterBase(trimmed, base)
		parsed.Addons = parseAddons(remainder)
		return parsed
	}

	// Sin base conocido: todo lo anterior al primer " with " es el base.
	lower := strings.ToLower(trimmed)
	if idx := strings.Index(lower, " with "); idx > 0 {
		parsed.BaseName = strings.TrimSpace(trimmed[:idx])
		parsed.Addons = parseAddons(trimmed[idx+len(" with "):])
	}
	return parsed
}

func isMixAndMatch(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, " with ") || strings.Contains(lower, " and ") {
		return true
	}
	for _, base := range baseProducts {
		if strings.Contains(lower, strings.ToLower(base)) {
			return true
		}
	}
	return false
}

// matchBaseProduct devuelve el producto base conocido contenido en el nombre,
// o vacío. La lista está ordenada por longitud descendente.
func matchBaseProduct(name string) string {
	lower := strings.ToLower(name)
	for _, base := range baseProducts {
		if strings.Contains(lower, strings.ToLower(base)) {
			return base
		}
	}
	return ""
}

// remainderAfterBase devuelve lo que sigue al nombre base, sin el conector
// inicial ("with"/"and") si lo hay.
func remainderAfterBase(name, base string) string {
	lower := strings.ToLower(name)
	idx := strings.Index(lower, strings.ToLower(base))
	remainder := strings.TrimSpace(name[idx+len(base):])
	for _, conn := range []string{"with ", "and "} {
		if len(remainder) >= len(conn) && strings.EqualFold(remainder[:len(conn)], conn) {
			remainder = strings.TrimSpace(remainder[len(conn):])
			break
		}
	}
	return remainder
}

// parseAddons separa el resto del nombre en descriptores de addon,
// cortando por conectores ("and"/"with") y comas.
func parseAddons(remainder string) []Addon {
	remainder = strings.TrimSpace(remainder)
	if remainder == "" {
		return nil
	}
	var addons []Addon
	for _, piece := range splitConnectives(remainder) {
		for _, part := range strings.Split(piece, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			addons = append(addons, ResolveAddon(part))
		}
	}
	return addons
}

// splitConnectives corta por " and " / " with " sin importar mayúsculas,
// igual que la detección en isMixAndMatch.
func splitConnectives(s string) []string {
	var pieces []string
	rest := s
	for {
		lower := strings.ToLower(rest)
		idx := -1
		width := 0
		for _, conn := range []string{" and ", " with "} {
			if i := strings.Index(lower, conn); i >= 0 && (idx < 0 || i < idx) {
				idx, width = i, len(conn)
			}
		}
		if idx < 0 {
			return append(pieces, rest)
		}
		pieces = append(pieces, rest[:idx])
		rest = rest[idx+width:]
	}
}
