package services

import (
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_planner/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	opts := []BudgetPlanServiceOption{}
	if repos.CategoryRepo != nil {
		opts = append(opts, WithCategoryReader(repos.CategoryRepo))
	}
	if repos.ActualsRepo != nil {
		opts = append(opts, WithActualsReader(repos.ActualsRepo))
	}
	container.BudgetPlan = NewBudgetPlanService(repos.BudgetPlanRepo, opts...)
	container.Category = NewCategoryService(repos.CategoryRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.BudgetPlanSvcFacade = (*budgetPlanService)(nil)
	_ portssvc.CategorySvc         = (*categoryService)(nil)
	_ portsrepo.PlanStore          = (*UserPlanStore)(nil)
)
