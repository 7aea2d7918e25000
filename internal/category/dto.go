package category

import (
	"strings"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/common/validation"
)

type CreateCategoryDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (dto *CreateCategoryDTO) Validate() *errors.AppError {
	dto.Name = strings.TrimSpace(dto.Name)

	v := validation.NewValidator()
	v.Field("name", dto.Name).
		Required().
		MaxLength(100)
	if dto.Description != nil {
		v.Field("description", *dto.Description).MaxLength(500)
	}
	return v.Validate()
}

type CategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
