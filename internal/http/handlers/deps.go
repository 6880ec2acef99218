package handlers

import (
	"github.com/jmoiron/sqlx"

	"boxd/internal/repos"
	"boxd/internal/services"
)

type Deps struct {
	InventoryHandler   *InventoryHandler
	ReservationHandler *ReservationHandler
	OfferHandler       *OfferHandler
	AuthHandler        *AuthHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	catalogRepo := repos.NewCatalogRepo(db)
	planRepo := repos.NewPlanRepo(db)
	resRepo := repos.NewReservationRepo(db)
	identRepo := repos.NewIdentityRepo(db)

	allocSvc := services.NewAllocationService(db, catalogRepo, planRepo, resRepo)
	lifecycleSvc := services.NewLifecycleService(resRepo)
	catalogSvc := services.NewCatalogService(db, catalogRepo, planRepo)
	offerSvc := services.NewOfferService(planRepo)
	authSvc := services.NewAuthService(identRepo)

	return &Deps{
		InventoryHandler:   &InventoryHandler{Alloc: allocSvc, Catalog: catalogSvc, Offers: offerSvc},
		ReservationHandler: &ReservationHandler{Alloc: allocSvc, Lifecycle: lifecycleSvc},
		OfferHandler:       &OfferHandler{Offers: offerSvc},
		AuthHandler:        &AuthHandler{Auth: authSvc},
	}
}
