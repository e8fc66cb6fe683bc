// Package share implements time-limited, single-claim gift links: creating a
// link freezes the flower instance, viewing is read-only and repeatable, and
// claiming clones the flower into the receiver's gift box exactly once.
package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/florisapp/floris-go/internal/catalog"
	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/logger"
	"github.com/florisapp/floris-go/internal/metrics"
	"github.com/florisapp/floris-go/internal/repository"
)

// KakaoLink holds the two URL variants KakaoTalk share templates expect
type KakaoLink struct {
	MobileWebURL string `json:"mobileWebUrl"`
	WebURL       string `json:"webUrl"`
}

// KakaoOptions is the ready-to-use KakaoTalk share payload
type KakaoOptions struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	ButtonTitle string    `json:"buttonTitle"`
	Link        KakaoLink `json:"link"`
}

// CreateLinkParams carries the sender's input for a new share link.
// Exactly one of UserFlowerID (an owned instance) or FlowerID (catalog id,
// guest flow) must be set.
type CreateLinkParams struct {
	UserFlowerID  string
	FlowerID      int
	LetterContent string
	SenderName    string
	LetterStyle   string
}

// CreateLinkResult contains everything the frontend needs to share
type CreateLinkResult struct {
	ShareLink    string       `json:"shareLink"`
	Message      string       `json:"message"`
	KakaoOptions KakaoOptions `json:"kakaoOptions"`
}

// ViewData is the letter shown to anyone opening a share link
type ViewData struct {
	SenderName    string        `json:"senderName"`
	LetterContent string        `json:"letterContent"`
	LetterStyle   string        `json:"letterStyle"`
	FlowerID      int           `json:"flowerId"`
	FlowerInfo    domain.Flower `json:"flowerInfo"`
}

// Service defines the interface for share link operations
type Service interface {
	CreateLink(ctx context.Context, params CreateLinkParams) (*CreateLinkResult, error)
	View(ctx context.Context, token string) (*ViewData, error)
	Claim(ctx context.Context, token, receiverID string) error
}

type service struct {
	flowers     repository.Flower
	catalog     *catalog.Catalog
	frontendURL string

	// injected for deterministic tests
	newToken func() string
	now      func() time.Time
}

// NewService creates a new share service
func NewService(flowers repository.Flower, cat *catalog.Catalog, frontendURL string) Service {
	return &service{
		flowers:     flowers,
		catalog:     cat,
		frontendURL: frontendURL,
		newToken:    uuid.NewString,
		now:         time.Now,
	}
}

func (s *service) CreateLink(ctx context.Context, params CreateLinkParams) (*CreateLinkResult, error) {
	log := logger.FromContext(ctx)
	log.Info("CreateLink called", "user_flower_id", params.UserFlowerID, "flower_id", params.FlowerID)

	instance, err := s.resolveInstance(ctx, params)
	if err != nil {
		return nil, err
	}

	info, ok := s.catalog.Get(instance.FlowerID)
	if !ok {
		return nil, fmt.Errorf("%w: flower %d", domain.ErrCatalogMissing, instance.FlowerID)
	}

	style := params.LetterStyle
	if style == "" {
		style = domain.DefaultLetterStyle
	}
	shareInfo := domain.ShareInfo{
		Token:         s.newToken(),
		LetterContent: params.LetterContent,
		SenderName:    params.SenderName,
		LetterStyle:   style,
		ExpiresAt:     s.now().Add(domain.ShareLinkTTL),
	}

	if err := s.flowers.MarkShared(ctx, instance.ID, shareInfo); err != nil {
		return nil, err
	}

	metrics.SharesCreated.Inc()
	log.Info("Share link created", "instance_id", instance.ID, "flower_id", instance.FlowerID)

	shareURL := fmt.Sprintf("%s/share/%s", s.frontendURL, shareInfo.Token)
	description := descriptionAnonymous
	if params.SenderName != "" && params.SenderName != AnonymousSender {
		description = fmt.Sprintf(descriptionNamedFormat, params.SenderName)
	}

	return &CreateLinkResult{
		ShareLink: shareURL,
		Message:   fmt.Sprintf("%s\n\n%s\n\n%s\n%s", ShareTitle, description, ButtonTitle, shareURL),
		KakaoOptions: KakaoOptions{
			Title:       ShareTitle,
			Description: description,
			ImageURL:    s.frontendURL + info.Image,
			ButtonTitle: ButtonTitle,
			Link:        KakaoLink{MobileWebURL: shareURL, WebURL: shareURL},
		},
	}, nil
}

// resolveInstance picks the instance to share: an existing owned one, or a
// freshly persisted guest instance when only a catalog id is given.
func (s *service) resolveInstance(ctx context.Context, params CreateLinkParams) (*domain.UserFlower, error) {
	switch {
	case params.UserFlowerID != "":
		instance, err := s.flowers.GetFlowerByID(ctx, params.UserFlowerID)
		if err != nil {
			return nil, err
		}
		if !domain.CanShare(instance) {
			return nil, domain.ErrNotShareable
		}
		return instance, nil

	case params.FlowerID != 0:
		if _, ok := s.catalog.Get(params.FlowerID); !ok {
			return nil, fmt.Errorf("%w: flower %d", domain.ErrFlowerNotFound, params.FlowerID)
		}
		instance := &domain.UserFlower{
			OwnerID:  domain.GuestOwnerID,
			FlowerID: params.FlowerID,
		}
		if err := s.flowers.CreateFlower(ctx, instance); err != nil {
			return nil, err
		}
		return instance, nil

	default:
		return nil, fmt.Errorf("%w: flower id required", domain.ErrInvalidInput)
	}
}

func (s *service) View(ctx context.Context, token string) (*ViewData, error) {
	instance, err := s.flowers.GetFlowerByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if instance.ShareInfo == nil {
		return nil, domain.ErrShareNotFound
	}
	if instance.ShareInfo.Expired(s.now()) {
		return nil, domain.ErrShareExpired
	}
	if instance.ShareInfo.Claimed {
		return nil, domain.ErrAlreadyClaimed
	}

	info, ok := s.catalog.Get(instance.FlowerID)
	if !ok {
		return nil, fmt.Errorf("%w: flower %d", domain.ErrCatalogMissing, instance.FlowerID)
	}

	style := instance.ShareInfo.LetterStyle
	if style == "" {
		style = domain.DefaultLetterStyle
	}
	return &ViewData{
		SenderName:    instance.ShareInfo.SenderName,
		LetterContent: instance.ShareInfo.LetterContent,
		LetterStyle:   style,
		FlowerID:      instance.FlowerID,
		FlowerInfo:    info,
	}, nil
}

func (s *service) Claim(ctx context.Context, token, receiverID string) error {
	log := logger.FromContext(ctx)
	log.Info("Claim called", "receiver_id", receiverID)

	if token == "" || receiverID == "" {
		return fmt.Errorf("%w: token and receiver id required", domain.ErrInvalidInput)
	}

	original, err := s.flowers.GetFlowerByToken(ctx, token)
	if err != nil {
		return err
	}
	if original.ShareInfo == nil {
		return domain.ErrShareNotFound
	}
	if original.ShareInfo.Expired(s.now()) {
		metrics.Claims.WithLabelValues(metrics.OutcomeExpired).Inc()
		return domain.ErrShareExpired
	}
	if original.OwnerID == receiverID {
		metrics.Claims.WithLabelValues(metrics.OutcomeSelfClaim).Inc()
		return domain.ErrSelfClaim
	}

	tx, err := s.flowers.BeginTx(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// The compare-and-set on the claimed flag is what makes racing claimers
	// resolve to exactly one winner; the checks above are fail-fast only.
	if err := tx.MarkClaimed(ctx, token); err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			metrics.Claims.WithLabelValues(metrics.OutcomeAlreadyClaimed).Inc()
		}
		return err
	}

	receivedAt := s.now()
	style := original.ShareInfo.LetterStyle
	if style == "" {
		style = domain.DefaultLetterStyle
	}
	gift := &domain.UserFlower{
		OwnerID:  receiverID,
		FlowerID: original.FlowerID,
		IsGift:   true,
		ShareInfo: &domain.ShareInfo{
			SenderName:    original.ShareInfo.SenderName,
			LetterContent: original.ShareInfo.LetterContent,
			LetterStyle:   style,
			ReceivedAt:    &receivedAt,
		},
	}
	if err := tx.CreateFlower(ctx, gift); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error("Failed to commit claim", "error", err)
		return fmt.Errorf("failed to commit claim: %w", err)
	}

	metrics.Claims.WithLabelValues(metrics.OutcomeClaimed).Inc()
	log.Info("Claim completed", "receiver_id", receiverID, "flower_id", original.FlowerID)
	return nil
}
