package handlers

import (
	"github.com/jmoiron/sqlx"

	"bellashop/internal/config"
	"bellashop/internal/media"
	"bellashop/internal/repos"
	"bellashop/internal/services"
)

type Deps struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Media   *media.Store

	ProductHandler  *ProductHandler
	SearchHandler   *SearchHandler
	CategoryHandler *CategoryHandler
	AdminHandler    *AdminHandler
	AuthHandler     *AuthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, history repos.HistoryRepo, store *media.Store) *Deps {
	prodRepo := repos.NewProductRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	poolRepo := repos.NewPoolRepo(db)
	adminRepo := repos.NewAdminRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, catRepo, poolRepo, history)
	authSvc := services.NewAuthService(adminRepo, cfg.JWTSecret, cfg.JWTTTL)

	return &Deps{
		Auth:    authSvc,
		Catalog: catalogSvc,
		Media:   store,

		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		AdminHandler:    &AdminHandler{Catalog: catalogSvc, Media: store},
		AuthHandler:     &AuthHandler{Auth: authSvc},
	}
}
