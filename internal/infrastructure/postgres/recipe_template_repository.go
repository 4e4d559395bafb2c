package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

var _ repository.RecipeTemplateRepository = (*RecipeTemplateRepo)(nil)

// RecipeTemplateRepo implementación de RecipeTemplateRepository sobre
// PostgreSQL. Las plantillas son globales (no por tienda).
type RecipeTemplateRepo struct {
	q Querier
}

// NewRecipeTemplateRepository construye el adaptador.
func NewRecipeTemplateRepository(q Querier) *RecipeTemplateRepo {
	return &RecipeTemplateRepo{q: q}
}

// GetByName devuelve la plantilla activa con ese nombre exacto, o nil.
func (r *RecipeTemplateRepo) GetByName(name string) (*entity.RecipeTemplate, error) {
	query := `SELECT id, name, is_active FROM recipe_templates WHERE name = $1 AND is_active`
	var tpl entity.RecipeTemplate
	err := r.q.QueryRow(context.Background(), query, name).Scan(&tpl.ID, &tpl.Name, &tpl.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe template: %w", err)
	}

	ingQuery := `
		SELECT ingredient_name, quantity, unit
		FROM recipe_template_ingredients WHERE template_id = $1
		ORDER BY position, ingredient_name`
	rows, err := r.q.Query(context.Background(), ingQuery, tpl.ID)
	if err != nil {
		return nil, fmt.Errorf("template ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ing entity.RecipeIngredient
		if err := rows.Scan(&ing.IngredientName, &ing.QuantityPerUnit, &ing.Unit); err != nil {
			return nil, fmt.Errorf("scan template ingredient: %w", err)
		}
		tpl.Ingredients = append(tpl.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &tpl, nil
}
