package examples

import "strings"

// displayNames maps well-known category directory names to their index page
// headings. Unknown keys fall back to a title-cased form of the key.
var displayNames = map[string]string{
	"thermo":            "Thermodynamics",
	"kinetics":          "Kinetics",
	"transport":         "Transport",
	"reactors":          "Reactor Networks",
	"onedim":            "One-Dimensional Flames",
	"flames":            "One-Dimensional Flames",
	"multiphase":        "Multiphase Mixtures",
	"surface_chemistry": "Surface Chemistry",
	"examples":          "Examples",
}

func displayName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
