package app

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/cinebook/booking-api/api"
	"github.com/cinebook/booking-api/internal/domain"
	"github.com/cinebook/booking-api/internal/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LoyaltyTestSuite struct {
	suite.Suite
	app         *application
	loyaltyRepo *mocks.MockLoyaltyRepo
}

func (s *LoyaltyTestSuite) SetupTest() {
	s.loyaltyRepo = new(mocks.MockLoyaltyRepo)

	s.app = newTestApplication(func(a *application) {
		a.loyaltyRepo = s.loyaltyRepo
		a.sessionManager = scs.New()
	})
}

func TestLoyaltySuite(t *testing.T) {
	suite.Run(t, new(LoyaltyTestSuite))
}

func (s *LoyaltyTestSuite) TestGetLoyaltyAccountHandler() {
	tests := []struct {
		name           string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
		wantResponse   api.LoyaltyAccountResponse
	}{
		{
			name: "should fail when database error occurs",
			setupMocks: func() {
				s.loyaltyRepo.On("GetByUserId", mock.Anything, testUserID).
					Return(nil, fmt.Errorf("database error"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name: "should return the bottom tier for users without an account",
			setupMocks: func() {
				s.loyaltyRepo.On("GetByUserId", mock.Anything, testUserID).
					Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus: http.StatusOK,
			wantResponse: api.LoyaltyAccountResponse{
				Tier: string(domain.TierBronze),
			},
		},
		{
			name: "should return the stored account",
			setupMocks: func() {
				s.loyaltyRepo.On("GetByUserId", mock.Anything, testUserID).
					Return(&domain.LoyaltyAccount{
						UserID:         testUserID,
						Points:         5200,
						LifetimePoints: 5200,
						Tier:           domain.TierGold,
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: api.LoyaltyAccountResponse{
				Points:         5200,
				LifetimePoints: 5200,
				Tier:           string(domain.TierGold),
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			tt.setupMocks()

			w, r := executeRequest(s.T(), http.MethodGet, "/loyalty", nil)
			r = setupTestSession(s.T(), s.app, r, testUserID)

			s.app.GetLoyaltyAccountHandler(w, r)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{tt.wantStatus, tt.wantErrMessage})

			if tt.wantStatus == http.StatusOK {
				var resp api.LoyaltyAccountResponse
				s.Require().NoError(jsonDecode(w, &resp))
				s.Equal(tt.wantResponse, resp)
			}

			s.loyaltyRepo.AssertExpectations(s.T())
		})
	}
}
