package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/share"
)

// CreateLinkRequest represents the request to share a flower.
// Either userFlowerId (an owned instance) or flowerId (catalog id, guest flow)
// must be set; the service rejects a request carrying neither.
type CreateLinkRequest struct {
	UserFlowerID  string `json:"userFlowerId"`
	FlowerID      int    `json:"flowerId"`
	LetterContent string `json:"letterContent" validate:"max=1000"`
	SenderName    string `json:"senderName" validate:"max=50"`
	LetterStyle   string `json:"letterStyle" validate:"max=50"`
}

// CreateLinkResponse represents a freshly created share link
type CreateLinkResponse struct {
	Success      bool               `json:"success"`
	ShareLink    string             `json:"shareLink"`
	Message      string             `json:"message"`
	KakaoOptions share.KakaoOptions `json:"kakaoOptions"`
}

// ViewShareResponse wraps the letter shown on a share link
type ViewShareResponse struct {
	Success bool            `json:"success"`
	Data    *share.ViewData `json:"data"`
}

// ClaimRequest represents the request to claim a shared flower
type ClaimRequest struct {
	Token          string `json:"token"`
	ReceiverUserID string `json:"receiverUserId"`
}

// ClaimResponse represents a successful claim
type ClaimResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleCreateLink creates a time-limited share link for a flower
// @Summary Share a flower
// @Description Freezes the instance and returns a claimable link with share copy
// @Tags share
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Flower and letter"
// @Success 200 {object} CreateLinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /share/create-link [post]
func HandleCreateLink(svc share.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateLinkRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create share link"); err != nil {
			return
		}

		res, err := svc.CreateLink(r.Context(), share.CreateLinkParams{
			UserFlowerID:  req.UserFlowerID,
			FlowerID:      req.FlowerID,
			LetterContent: req.LetterContent,
			SenderName:    req.SenderName,
			LetterStyle:   req.LetterStyle,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				respondError(w, http.StatusBadRequest, MsgFlowerIDRequired)
				return
			}
			respondServiceError(w, r, "Failed to create share link", err)
			return
		}

		respondJSON(w, http.StatusOK, CreateLinkResponse{
			Success:      true,
			ShareLink:    res.ShareLink,
			Message:      res.Message,
			KakaoOptions: res.KakaoOptions,
		})
	}
}

// HandleViewShare resolves a share token to its letter and flower info
// @Summary View a shared flower
// @Description Read-only letter view; repeatable and side-effect free
// @Tags share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} ViewShareResponse
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /share/{token} [get]
func HandleViewShare(svc share.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		data, err := svc.View(r.Context(), token)
		if err != nil {
			respondViewError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, ViewShareResponse{Success: true, Data: data})
	}
}

// HandleClaim moves a shared flower into the receiver's gift box
// @Summary Claim a shared flower
// @Description Claims the gift exactly once and clones it for the receiver
// @Tags share
// @Accept json
// @Produce json
// @Param request body ClaimRequest true "Token and receiver"
// @Success 200 {object} ClaimResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /share/claim [post]
func HandleClaim(svc share.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClaimRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Claim flower"); err != nil {
			return
		}

		if err := svc.Claim(r.Context(), req.Token, req.ReceiverUserID); err != nil {
			respondClaimError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, ClaimResponse{
			Success: true,
			Message: share.ClaimSuccessMessage,
		})
	}
}

// respondViewError applies the view route's wording where it differs from the
// default mapping
func respondViewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrCatalogMissing):
		respondError(w, http.StatusInternalServerError, MsgFlowerInfoLoadError)
	default:
		respondServiceError(w, r, "Failed to view share link", err)
	}
}

// respondClaimError applies the claim route's wording
func respondClaimError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, MsgClaimInputRequired)
	case errors.Is(err, domain.ErrShareNotFound):
		respondError(w, http.StatusNotFound, MsgInvalidAccess)
	case errors.Is(err, domain.ErrShareExpired):
		respondError(w, http.StatusGone, MsgClaimExpired)
	case errors.Is(err, domain.ErrAlreadyClaimed):
		respondError(w, http.StatusGone, MsgAlreadyClaimed)
	default:
		respondServiceError(w, r, "Failed to claim flower", err)
	}
}
