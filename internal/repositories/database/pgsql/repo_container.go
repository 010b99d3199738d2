package pgsql

import (
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	planRepo := newPgxBudgetPlanRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)

	return portsrepo.RepositoryProvider{
		BudgetPlanRepo: planRepo,
		CategoryRepo:   categoryRepo,
		ActualsRepo:    categoryRepo,
	}
}
