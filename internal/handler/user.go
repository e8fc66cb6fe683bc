package handler

import (
	"net/http"

	"github.com/florisapp/floris-go/internal/auth"
	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/gacha"
	"github.com/florisapp/floris-go/internal/inventory"
	"github.com/florisapp/floris-go/internal/logger"
)

// GachaResponse represents the result of a draw
type GachaResponse struct {
	Success bool          `json:"success"`
	Points  int           `json:"points"`
	Flower  domain.Flower `json:"flower"`
	IsNew   bool          `json:"isNew"`
}

// SellRequest represents the request to sell one flower instance
type SellRequest struct {
	FlowerID int `json:"flowerId" validate:"required,gt=0"`
}

// SellResponse represents the result of a sell
type SellResponse struct {
	Success bool   `json:"success"`
	Points  int    `json:"points"`
	SoldID  string `json:"soldId"`
}

// HandleGetMe returns the authenticated user's garden view
// @Summary Get my garden
// @Description Returns points, active inventory counts, and the gift box
// @Tags user
// @Produce json
// @Success 200 {object} inventory.View
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /user/me [get]
func HandleGetMe(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
			return
		}

		view, err := svc.GetView(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "Failed to get garden view", err)
			return
		}

		respondJSON(w, http.StatusOK, view)
	}
}

// HandleGacha performs one paid draw for the authenticated user
// @Summary Draw a flower
// @Description Debits the draw cost and adds a randomly drawn flower
// @Tags user
// @Produce json
// @Success 200 {object} GachaResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /user/gacha [post]
func HandleGacha(svc gacha.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
			return
		}

		res, err := svc.Draw(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "Failed to draw flower", err)
			return
		}

		log := logger.FromContext(r.Context())
		log.Info("Gacha draw served", "flower_id", res.Flower.ID, "is_new", res.IsNew)

		respondJSON(w, http.StatusOK, GachaResponse{
			Success: true,
			Points:  res.Points,
			Flower:  res.Flower,
			IsNew:   res.IsNew,
		})
	}
}

// HandleSell sells one instance of a flower for its catalog price
// @Summary Sell a flower
// @Description Removes one unshared, non-gift instance and credits its price
// @Tags user
// @Accept json
// @Produce json
// @Param request body SellRequest true "Flower to sell"
// @Success 200 {object} SellResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /user/sell [post]
func HandleSell(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
			return
		}

		var req SellRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell flower"); err != nil {
			return
		}

		res, err := svc.Sell(r.Context(), userID, req.FlowerID)
		if err != nil {
			respondServiceError(w, r, "Failed to sell flower", err)
			return
		}

		respondJSON(w, http.StatusOK, SellResponse{
			Success: true,
			Points:  res.Points,
			SoldID:  res.SoldID,
		})
	}
}
