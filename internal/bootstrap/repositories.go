package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/florisapp/floris-go/internal/database/postgres"
	"github.com/florisapp/floris-go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	User   repository.User
	Flower repository.Flower
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:   postgres.NewUserRepository(dbPool),
		Flower: postgres.NewFlowerRepository(dbPool),
	}
}
