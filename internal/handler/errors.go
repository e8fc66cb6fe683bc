package handler

import (
	"errors"
	"net/http"

	"github.com/florisapp/floris-go/internal/domain"
)

// Generic HTTP error messages for client responses.
// These intentionally do not expose internal error details.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgUnauthorized          = "Authentication required"
)

// Korean user-facing messages. The frontend shows these verbatim, so the
// wording is part of the drop-in contract with the existing client.
const (
	MsgUserNotFound       = "사용자를 찾을 수 없습니다."
	MsgNotEnoughPoints    = "포인트가 부족합니다."
	MsgFlowerNotFound     = "꽃을 찾을 수 없습니다."
	MsgFlowerIDRequired   = "꽃 ID가 필요합니다."
	MsgNotShareable       = "이미 공유했거나 선물 받은 꽃은 공유할 수 없습니다."
	MsgCatalogUnavailable = "꽃 도감 정보를 찾을 수 없습니다."

	// View-link messages
	MsgInvalidLink         = "유효하지 않은 링크입니다."
	MsgLinkExpired         = "유효 기간(24시간)이 만료된 선물입니다."
	MsgAlreadyReceived     = "이미 누군가 수령한 선물입니다."
	MsgFlowerInfoLoadError = "꽃 정보를 불러올 수 없습니다."

	// Claim messages
	MsgClaimInputRequired = "토큰과 받는 사람 ID가 필요합니다."
	MsgInvalidAccess      = "잘못된 접근입니다."
	MsgClaimExpired       = "유효 기간이 만료되어 받을 수 없습니다."
	MsgAlreadyClaimed     = "이미 수령 완료된 선물입니다."
	MsgSelfClaim          = "자신이 보낸 꽃은 받을 수 없습니다."
)

// mapServiceErrorToUserMessage maps domain errors to the status code and
// default user-facing message. View and claim override a few messages where
// the original wording differs per route.
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, MsgNotEnoughPoints
	case errors.Is(err, domain.ErrNotShareable):
		return http.StatusBadRequest, MsgNotShareable
	case errors.Is(err, domain.ErrSelfClaim):
		return http.StatusBadRequest, MsgSelfClaim
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, domain.ErrFlowerNotFound):
		return http.StatusNotFound, MsgFlowerNotFound
	case errors.Is(err, domain.ErrShareNotFound):
		return http.StatusNotFound, MsgInvalidLink
	case errors.Is(err, domain.ErrShareExpired):
		return http.StatusGone, MsgLinkExpired
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return http.StatusGone, MsgAlreadyReceived
	case errors.Is(err, domain.ErrCatalogMissing):
		return http.StatusInternalServerError, MsgCatalogUnavailable
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}
