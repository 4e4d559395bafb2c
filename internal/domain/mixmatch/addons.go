package mixmatch

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AddonCategory clasifica un addon dentro del conjunto cerrado de categorías
// del menú mix-and-match.
type AddonCategory string

const (
	CategorySauceClassic   AddonCategory = "sauce_classic"
	CategorySaucePremium   AddonCategory = "sauce_premium"
	CategoryToppingClassic AddonCategory = "topping_classic"
	CategoryToppingPremium AddonCategory = "topping_premium"
	CategoryBiscuit        AddonCategory = "biscuit"
)

// Addon es un descriptor de addon ya categorizado. La cantidad es siempre 1
// por unidad de producto base vendida.
type Addon struct {
	Name     string
	Category AddonCategory
	Quantity int64
	Unit     string
}

// Listas estáticas por categoría. El orden de chequeo es fijo (salsas, luego
// toppings, luego biscuits) para que un token ambiguo resuelva siempre igual.
var (
	classicSauces = []string{
		"Chocolate Sauce", "Caramel Sauce", "Strawberry Sauce", "Vanilla Sauce",
	}
	premiumSauces = []string{
		"Dark Chocolate Sauce", "Matcha Sauce", "Nutella", "Tiramisu",
	}
	classicToppings = []string{
		"Choco Flakes", "Colored Sprinkles", "Marshmallow", "Peanut",
	}
	premiumToppings = []string{
		"Crushed Oreo", "Graham Cracker", "Blueberry", "Strawberry", "Banana",
	}
	biscuits = []string{
		"Lotus Biscuit", "Oreo Biscuit", "Graham Biscuit",
	}
)

var titleCaser = cases.Title(language.English)

// ResolveAddon mapea un descriptor libre a un addon categorizado. Nunca falla:
// un descriptor que no calza con ninguna lista se clasifica como topping
// clásico genérico con el nombre en Title Case. El fallo de mapeo a inventario
// se difiere a la resolución de ingredientes y sale como warning, no error.
func ResolveAddon(descriptor string) Addon {
	lower := strings.ToLower(strings.TrimSpace(descriptor))

	for _, candidate := range premiumSauces {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return Addon{Name: candidate, Category: CategorySaucePremium, Quantity: 1, Unit: "pieces"}
		}
	}
	for _, candidate := range classicSauces {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return Addon{Name: candidate, Category: CategorySauceClassic, Quantity: 1, Unit: "pieces"}
		}
	}
	for _, candidate := range premiumToppings {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return Addon{Name: candidate, Category: CategoryToppingPremium, Quantity: 1, Unit: "pieces"}
		}
	}
	for _, candidate := range classicToppings {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return Addon{Name: candidate, Category: CategoryToppingClassic, Quantity: 1, Unit: "pieces"}
		}
	}
	for _, candidate := range biscuits {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return Addon{Name: candidate, Category: CategoryBiscuit, Quantity: 1, Unit: "pieces"}
		}
	}

	return Addon{
		Name:     titleCaser.String(lower),
		Category: CategoryToppingClassic,
		Quantity: 1,
		Unit:     "pieces",
	}
}
