package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
)

type PricingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPriceRuleRepository
	service  portssvc.PricingSvcFacade
}

func (suite *PricingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPriceRuleRepository)
	suite.service = services.NewPricingService(suite.mockRepo)
}

func (suite *PricingServiceTestSuite) TestCreatePriceRule_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	propertyID := "prop-1"
	req := dto.CreatePriceRuleRequest{
		ServiceType:  domain.ServiceCleaning,
		PricingModel: domain.PricingFixed,
		FixedPrice:   decimal.NewFromInt(80),
		PropertyID:   &propertyID,
	}

	suite.mockRepo.On("SavePriceRule", ctx, mock.MatchedBy(func(r domain.PriceRule) bool {
		return r.ServiceType == req.ServiceType &&
			r.PricingModel == req.PricingModel &&
			r.FixedPrice.Equal(req.FixedPrice) &&
			r.IsActive &&
			r.CreatedBy == creatorUserID
	})).Return(nil).Once()

	rule, err := suite.service.CreatePriceRule(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rule)
	suite.NotEmpty(rule.RuleID)
	suite.True(rule.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestCreatePriceRule_Duplicate() {
	ctx := context.Background()
	req := dto.CreatePriceRuleRequest{
		ServiceType:  domain.ServiceCleaning,
		PricingModel: domain.PricingFixed,
		FixedPrice:   decimal.NewFromInt(80),
	}

	suite.mockRepo.On("SavePriceRule", ctx, mock.AnythingOfType("domain.PriceRule")).
		Return(apperrors.ErrDuplicate).Once()

	rule, err := suite.service.CreatePriceRule(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrDuplicatePriceRule)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestUpdatePriceRule_ReactivationConflict() {
	ctx := context.Background()
	propertyID := "prop-1"
	existing := &domain.PriceRule{
		RuleID:       "r-1",
		ServiceType:  domain.ServiceCleaning,
		PricingModel: domain.PricingFixed,
		FixedPrice:   decimal.NewFromInt(80),
		PropertyID:   &propertyID,
		IsActive:     false,
	}
	active := true

	suite.mockRepo.On("FindPriceRuleByID", ctx, "r-1").Return(existing, nil).Once()
	// Another active rule claimed the pair while this one was inactive.
	suite.mockRepo.On("UpdatePriceRule", ctx, mock.MatchedBy(func(rule domain.PriceRule) bool {
		return rule.RuleID == "r-1" && rule.IsActive
	})).Return(apperrors.ErrDuplicate).Once()

	rule, err := suite.service.UpdatePriceRule(ctx, "r-1", dto.UpdatePriceRuleRequest{IsActive: &active}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrDuplicatePriceRule)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestCreatePriceRule_InvalidServiceType() {
	ctx := context.Background()
	req := dto.CreatePriceRuleRequest{
		ServiceType:  "WINDOW_WASHING",
		PricingModel: domain.PricingFixed,
	}

	rule, err := suite.service.CreatePriceRule(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePriceRule")
}

func (suite *PricingServiceTestSuite) TestCreatePriceRule_NegativePrice() {
	ctx := context.Background()
	req := dto.CreatePriceRuleRequest{
		ServiceType:  domain.ServiceRepair,
		PricingModel: domain.PricingHourly,
		HourlyRate:   decimal.NewFromInt(-5),
	}

	_, err := suite.service.CreatePriceRule(ctx, req, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PricingServiceTestSuite) TestResolvePrice_PropertyRuleWins() {
	ctx := context.Background()
	propertyID := "prop-1"
	propertyRule := &domain.PriceRule{RuleID: "r-prop", ServiceType: domain.ServiceCleaning, PropertyID: &propertyID}

	suite.mockRepo.On("FindRuleForService", ctx, domain.ServiceCleaning, &propertyID).
		Return(propertyRule, nil).Once()

	rule, err := suite.service.ResolvePrice(ctx, domain.ServiceCleaning, propertyID)

	suite.Require().NoError(err)
	suite.Equal("r-prop", rule.RuleID)
	// The global rule is never consulted when a property rule exists.
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "FindRuleForService", 1)
}

func (suite *PricingServiceTestSuite) TestResolvePrice_FallsBackToGlobal() {
	ctx := context.Background()
	propertyID := "prop-1"
	globalRule := &domain.PriceRule{RuleID: "r-global", ServiceType: domain.ServiceCleaning}

	suite.mockRepo.On("FindRuleForService", ctx, domain.ServiceCleaning, &propertyID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindRuleForService", ctx, domain.ServiceCleaning, (*string)(nil)).
		Return(globalRule, nil).Once()

	rule, err := suite.service.ResolvePrice(ctx, domain.ServiceCleaning, propertyID)

	suite.Require().NoError(err)
	suite.Equal("r-global", rule.RuleID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestResolvePrice_NoneAvailable() {
	ctx := context.Background()
	propertyID := "prop-1"

	suite.mockRepo.On("FindRuleForService", ctx, domain.ServiceLandscaping, &propertyID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindRuleForService", ctx, domain.ServiceLandscaping, (*string)(nil)).
		Return(nil, apperrors.ErrNotFound).Once()

	rule, err := suite.service.ResolvePrice(ctx, domain.ServiceLandscaping, propertyID)

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrNoPriceAvailable)
}

func (suite *PricingServiceTestSuite) TestCalculatePrice_Fixed() {
	rule := domain.PriceRule{
		PricingModel: domain.PricingFixed,
		FixedPrice:   decimal.RequireFromString("80.00"),
	}
	minutes := 90

	// Duration is ignored for fixed pricing.
	amount, err := suite.service.CalculatePrice(rule, &minutes)

	suite.Require().NoError(err)
	suite.True(amount.Equal(decimal.RequireFromString("80.00")))
}

func (suite *PricingServiceTestSuite) TestCalculatePrice_Hourly() {
	rule := domain.PriceRule{
		PricingModel: domain.PricingHourly,
		HourlyRate:   decimal.RequireFromString("15.00"),
	}
	minutes := 90

	amount, err := suite.service.CalculatePrice(rule, &minutes)

	suite.Require().NoError(err)
	suite.True(amount.Equal(decimal.RequireFromString("22.50")), "got %s", amount)
}

func (suite *PricingServiceTestSuite) TestCalculatePrice_HourlyRequiresDuration() {
	rule := domain.PriceRule{
		PricingModel: domain.PricingHourly,
		HourlyRate:   decimal.RequireFromString("15.00"),
	}

	_, err := suite.service.CalculatePrice(rule, nil)

	suite.ErrorIs(err, apperrors.ErrDurationRequired)
}

func (suite *PricingServiceTestSuite) TestCalculatePrice_BundleRejected() {
	rule := domain.PriceRule{PricingModel: domain.PricingBundle}
	minutes := 60

	_, err := suite.service.CalculatePrice(rule, &minutes)

	suite.ErrorIs(err, apperrors.ErrUnsupportedPricingModel)
}

func TestPricingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PricingServiceTestSuite))
}
