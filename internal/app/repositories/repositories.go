package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	ResultRepository     *ResultRepository
	NewsletterRepository *NewsletterRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		ResultRepository:     NewResultRepository(db),
		NewsletterRepository: NewNewsletterRepository(db),
	}
}

var (
	_ IUserRepository       = (*UserRepository)(nil)
	_ ITokenRepository      = (*TokenRepository)(nil)
	_ IResultRepository     = (*ResultRepository)(nil)
	_ INewsletterRepository = (*NewsletterRepository)(nil)
)
