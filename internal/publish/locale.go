package publish

import "strings"

// replacement tables adapt the Spanish base editorial for other
// locales. Replacements are ordered and apply to section headings and
// boilerplate only; prose and code blocks pass through untouched.
var localeTables = map[string][]struct{ from, to string }{
	"en": {
		{"Resumen del Problema", "Problem Summary"},
		{"Enfoque de Solución", "Solution Approach"},
		{"Código de Solución", "Solution Code"},
		{"Complejidad", "Complexity"},
		{"Tiempo", "Time"},
		{"Espacio", "Space"},
		{"Notas Importantes", "Important Notes"},
		{"Editorial generado por IA", "AI-generated editorial"},
		{"Versión Demo", "Demo Version"},
	},
	"pt": {
		{"Resumen del Problema", "Resumo do Problema"},
		{"Enfoque de Solución", "Abordagem da Solução"},
		{"Código de Solución", "Código da Solução"},
		{"Complejidad", "Complexidade"},
		{"Tiempo", "Tempo"},
		{"Espacio", "Espaço"},
		{"Editorial generado por IA", "Editorial gerado por IA"},
		{"Versión Demo", "Versão Demo"},
	},
}

// AdaptLocale renders the base editorial for the given locale. The base
// content is authored in Spanish; unknown locales and "es" return the
// input unchanged. The function is pure: equal inputs always produce
// equal outputs and the input is never mutated.
func AdaptLocale(content, locale string) string {
	table, ok := localeTables[locale]
	if !ok {
		return content
	}

	adapted := content
	for _, r := range table {
		adapted = strings.ReplaceAll(adapted, r.from, r.to)
	}
	return adapted
}
