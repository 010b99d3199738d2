package dto

import (
	"fmt"

	"github.com/SscSPs/budget_planner/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the custom binding tags used by request DTOs
// on gin's validator engine.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("budgetgroup", validateBudgetGroup)
}

// validateBudgetGroup accepts the four known budget groups.
func validateBudgetGroup(fl validator.FieldLevel) bool {
	return domain.BudgetGroup(fl.Field().String()).IsValid()
}
