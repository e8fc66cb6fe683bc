package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/florisapp/floris-go/internal/catalog"
	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/repository"
)

// MockFlowerRepository
type MockFlowerRepository struct {
	mock.Mock
}

func (m *MockFlowerRepository) GetFlowerByID(ctx context.Context, id string) (*domain.UserFlower, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFlower), args.Error(1)
}

func (m *MockFlowerRepository) GetFlowerByToken(ctx context.Context, token string) (*domain.UserFlower, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFlower), args.Error(1)
}

func (m *MockFlowerRepository) ListFlowersByOwner(ctx context.Context, ownerID string) ([]domain.UserFlower, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserFlower), args.Error(1)
}

func (m *MockFlowerRepository) CreateFlower(ctx context.Context, flower *domain.UserFlower) error {
	args := m.Called(ctx, flower)
	return args.Error(0)
}

func (m *MockFlowerRepository) MarkShared(ctx context.Context, flowerID string, share domain.ShareInfo) error {
	args := m.Called(ctx, flowerID, share)
	return args.Error(0)
}

func (m *MockFlowerRepository) CountOwnedByFlower(ctx context.Context, ownerID string, flowerID int) (int, error) {
	args := m.Called(ctx, ownerID, flowerID)
	return args.Int(0), args.Error(1)
}

func (m *MockFlowerRepository) BeginTx(ctx context.Context) (repository.FlowerTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.FlowerTx), args.Error(1)
}

// MockFlowerTx
type MockFlowerTx struct {
	mock.Mock
}

func (m *MockFlowerTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFlowerTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFlowerTx) CreateFlower(ctx context.Context, flower *domain.UserFlower) error {
	args := m.Called(ctx, flower)
	return args.Error(0)
}

func (m *MockFlowerTx) DeleteFlower(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlowerTx) FindSellable(ctx context.Context, ownerID string, flowerID int) (*domain.UserFlower, error) {
	args := m.Called(ctx, ownerID, flowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFlower), args.Error(1)
}

func (m *MockFlowerTx) CountOwnedByFlower(ctx context.Context, ownerID string, flowerID int) (int, error) {
	args := m.Called(ctx, ownerID, flowerID)
	return args.Int(0), args.Error(1)
}

func (m *MockFlowerTx) MarkClaimed(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockFlowerTx) DebitPoints(ctx context.Context, userID string, amount int) (int, error) {
	args := m.Called(ctx, userID, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockFlowerTx) CreditPoints(ctx context.Context, userID string, amount int) (int, error) {
	args := m.Called(ctx, userID, amount)
	return args.Int(0), args.Error(1)
}

const testFrontendURL = "https://floris.example"

var testNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]domain.Flower{
		{ID: 3, Name: "수국", Rarity: domain.RarityRare, Price: 80, Image: "/flowers/3.png"},
	})
	require.NoError(t, err)
	return c
}

func newTestService(repo repository.Flower, cat *catalog.Catalog) *service {
	return &service{
		flowers:     repo,
		catalog:     cat,
		frontendURL: testFrontendURL,
		newToken:    func() string { return "tok-1" },
		now:         func() time.Time { return testNow },
	}
}

func TestCreateLink_OwnedInstance(t *testing.T) {
	repo := new(MockFlowerRepository)

	repo.On("GetFlowerByID", mock.Anything, "inst-1").
		Return(&domain.UserFlower{ID: "inst-1", OwnerID: "u1", FlowerID: 3}, nil)
	repo.On("MarkShared", mock.Anything, "inst-1", mock.MatchedBy(func(s domain.ShareInfo) bool {
		return s.Token == "tok-1" &&
			s.LetterContent == "생일 축하해" &&
			s.SenderName == "민지" &&
			s.LetterStyle == "bg-sky-50" &&
			s.ExpiresAt.Equal(testNow.Add(24*time.Hour))
	})).Return(nil)

	svc := newTestService(repo, testCatalog(t))
	res, err := svc.CreateLink(context.Background(), CreateLinkParams{
		UserFlowerID:  "inst-1",
		LetterContent: "생일 축하해",
		SenderName:    "민지",
		LetterStyle:   "bg-sky-50",
	})

	require.NoError(t, err)
	wantURL := testFrontendURL + "/share/tok-1"
	assert.Equal(t, wantURL, res.ShareLink)
	assert.Equal(t, ShareTitle, res.KakaoOptions.Title)
	assert.Equal(t, "🌸 민지님으로부터 편지와 함께 꽃이 도착했습니다.\n24시간 내 확인 하지 않으면 꽃이 시들어요!", res.KakaoOptions.Description)
	assert.Equal(t, testFrontendURL+"/flowers/3.png", res.KakaoOptions.ImageURL)
	assert.Equal(t, ButtonTitle, res.KakaoOptions.ButtonTitle)
	assert.Equal(t, wantURL, res.KakaoOptions.Link.MobileWebURL)
	assert.Equal(t, wantURL, res.KakaoOptions.Link.WebURL)
	assert.Contains(t, res.Message, wantURL)
	repo.AssertExpectations(t)
}

func TestCreateLink_AnonymousSenderGetsGenericDescription(t *testing.T) {
	repo := new(MockFlowerRepository)

	repo.On("GetFlowerByID", mock.Anything, "inst-1").
		Return(&domain.UserFlower{ID: "inst-1", OwnerID: "u1", FlowerID: 3}, nil)
	repo.On("MarkShared", mock.Anything, "inst-1", mock.Anything).Return(nil)

	svc := newTestService(repo, testCatalog(t))
	res, err := svc.CreateLink(context.Background(), CreateLinkParams{
		UserFlowerID: "inst-1",
		SenderName:   AnonymousSender,
	})

	require.NoError(t, err)
	assert.Equal(t, "🌸 편지와 함께 꽃이 도착했습니다. 24시간 내 확인 하지 않으면 꽃이 시들어요!", res.KakaoOptions.Description)
}

func TestCreateLink_DefaultLetterStyle(t *testing.T) {
	repo := new(MockFlowerRepository)

	repo.On("GetFlowerByID", mock.Anything, "inst-1").
		Return(&domain.UserFlower{ID: "inst-1", OwnerID: "u1", FlowerID: 3}, nil)
	repo.On("MarkShared", mock.Anything, "inst-1", mock.MatchedBy(func(s domain.ShareInfo) bool {
		return s.LetterStyle == domain.DefaultLetterStyle
	})).Return(nil)

	svc := newTestService(repo, testCatalog(t))
	_, err := svc.CreateLink(context.Background(), CreateLinkParams{UserFlowerID: "inst-1"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateLink_GuestFlowPersistsInstance(t *testing.T) {
	repo := new(MockFlowerRepository)

	repo.On("CreateFlower", mock.Anything, mock.MatchedBy(func(f *domain.UserFlower) bool {
		return f.OwnerID == domain.GuestOwnerID && f.FlowerID == 3 && !f.IsGift && !f.IsShared
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.UserFlower).ID = "guest-inst"
	}).Return(nil)
	repo.On("MarkShared", mock.Anything, "guest-inst", mock.Anything).Return(nil)

	svc := newTestService(repo, testCatalog(t))
	res, err := svc.CreateLink(context.Background(), CreateLinkParams{FlowerID: 3})

	require.NoError(t, err)
	assert.Equal(t, testFrontendURL+"/share/tok-1", res.ShareLink)
	repo.AssertExpectations(t)
}

func TestCreateLink_RejectsGiftedOrSharedInstance(t *testing.T) {
	tests := []struct {
		name     string
		instance *domain.UserFlower
	}{
		{"gift", &domain.UserFlower{ID: "inst-1", FlowerID: 3, IsGift: true}},
		{"already shared", &domain.UserFlower{ID: "inst-1", FlowerID: 3, IsShared: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockFlowerRepository)
			repo.On("GetFlowerByID", mock.Anything, "inst-1").Return(tt.instance, nil)

			svc := newTestService(repo, testCatalog(t))
			_, err := svc.CreateLink(context.Background(), CreateLinkParams{UserFlowerID: "inst-1"})

			assert.ErrorIs(t, err, domain.ErrNotShareable)
			repo.AssertNotCalled(t, "MarkShared", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateLink_MissingFlowerID(t *testing.T) {
	svc := newTestService(new(MockFlowerRepository), testCatalog(t))
	_, err := svc.CreateLink(context.Background(), CreateLinkParams{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func sharedInstance(expiresAt time.Time) *domain.UserFlower {
	return &domain.UserFlower{
		ID:       "inst-1",
		OwnerID:  "u1",
		FlowerID: 3,
		IsShared: true,
		ShareInfo: &domain.ShareInfo{
			Token:         "tok-1",
			LetterContent: "안녕",
			SenderName:    "민지",
			LetterStyle:   "bg-sky-50",
			ExpiresAt:     expiresAt,
		},
	}
}

func TestView_Success(t *testing.T) {
	repo := new(MockFlowerRepository)
	repo.On("GetFlowerByToken", mock.Anything, "tok-1").
		Return(sharedInstance(testNow.Add(time.Hour)), nil)

	svc := newTestService(repo, testCatalog(t))
	data, err := svc.View(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, "민지", data.SenderName)
	assert.Equal(t, "안녕", data.LetterContent)
	assert.Equal(t, "bg-sky-50", data.LetterStyle)
	assert.Equal(t, 3, data.FlowerID)
	assert.Equal(t, "수국", data.FlowerInfo.Name)
}

func TestView_IsRepeatable(t *testing.T) {
	repo := new(MockFlowerRepository)
	repo.On("GetFlowerByToken", mock.Anything, "tok-1").
		Return(sharedInstance(testNow.Add(time.Hour)), nil)

	svc := newTestService(repo, testCatalog(t))
	for i := 0; i < 3; i++ {
		_, err := svc.View(context.Background(), "tok-1")
		require.NoError(t, err)
	}
	// Viewing never mutates anything
	repo.AssertNotCalled(t, "MarkShared", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestView_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		wantErr   error
	}{
		{"just before expiry", testNow.Add(time.Millisecond), nil},
		{"exactly at expiry", testNow, nil},
		{"just after expiry", testNow.Add(-time.Millisecond), domain.ErrShareExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockFlowerRepository)
			repo.On("GetFlowerByToken", mock.Anything, "tok-1").
				Return(sharedInstance(tt.expiresAt), nil)

			svc := newTestService(repo, testCatalog(t))
			_, err := svc.View(context.Background(), "tok-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestView_AlreadyClaimed(t *testing.T) {
	instance := sharedInstance(testNow.Add(time.Hour))
	instance.ShareInfo.Claimed = true

	repo := new(MockFlowerRepository)
	repo.On("GetFlowerByToken", mock.Anything, "tok-1").Return(instance, nil)

	svc := newTestService(repo, testCatalog(t))
	_, err := svc.View(context.Background(), "tok-1")

	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
}

func TestView_UnknownToken(t *testing.T) {
	repo := new(MockFlowerRepository)
	repo.On("GetFlowerByToken", mock.Anything, "nope").Return(nil, domain.ErrShareNotFound)

	svc := newTestService(repo, testCatalog(t))
	_, err := svc.View(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrShareNotFound)
}

func TestClaim_Success(t *testing.T) {
	repo := new(MockFlowerRepository)
	tx := new(MockFlowerTx)

	repo.On("GetFlowerByToken", mock.Anything, "tok-1").
		Return(sharedInstance(testNow.Add(time.Hour)), nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("MarkClaimed", mock.Anything, "tok-1").Return(nil)
	tx.On("CreateFlower", mock.Anything, mock.MatchedBy(func(f *domain.UserFlower) bool {
		return f.OwnerID == "u2" &&
			f.FlowerID == 3 &&
			f.IsGift &&
			!f.IsShared &&
			f.ShareInfo != nil &&
			f.ShareInfo.SenderName == "민지" &&
			f.ShareInfo.LetterContent == "안녕" &&
			f.ShareInfo.ReceivedAt != nil &&
			f.ShareInfo.ReceivedAt.Equal(testNow)
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(errors.New("tx is closed"))

	svc := newTestService(repo, testCatalog(t))
	err := svc.Claim(context.Background(), "tok-1", "u2")

	require.NoError(t, err)
	repo.AssertExpectations(t)
	tx.AssertExpectations(t)
}

func TestClaim_SelfClaimRejected(t *testing.T) {
	repo := new(MockFlowerRepository)
	repo.On("GetFlowerByToken", mock.Anything, "tok-1").
		Return(sharedInstance(testNow.Add(time.Hour)), nil)

	svc := newTestService(repo, testCatalog(t))
	err := svc.Claim(context.Background(), "tok-1", "u1")

	assert.ErrorIs(t, err, domain.ErrSelfClaim)
	repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestClaim_Expired(t *testing.T) {
	repo := new(MockFlowerRepository)
	repo.On("GetFlowerByToken", mock.Anything, "tok-1").
		Return(sharedInstance(testNow.Add(-time.Minute)), nil)

	svc := newTestService(repo, testCatalog(t))
	err := svc.Claim(context.Background(), "tok-1", "u2")

	assert.ErrorIs(t, err, domain.ErrShareExpired)
	repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestClaim_AlreadyClaimedLosesRace(t *testing.T) {
	repo := new(MockFlowerRepository)
	tx := new(MockFlowerTx)

	repo.On("GetFlowerByToken", mock.Anything, "tok-1").
		Return(sharedInstance(testNow.Add(time.Hour)), nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("MarkClaimed", mock.Anything, "tok-1").Return(domain.ErrAlreadyClaimed)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, testCatalog(t))
	err := svc.Claim(context.Background(), "tok-1", "u2")

	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
	tx.AssertNotCalled(t, "CreateFlower", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestClaim_MissingInput(t *testing.T) {
	svc := newTestService(new(MockFlowerRepository), testCatalog(t))

	assert.ErrorIs(t, svc.Claim(context.Background(), "", "u2"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Claim(context.Background(), "tok-1", ""), domain.ErrInvalidInput)
}
