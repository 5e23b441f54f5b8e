package stores

import (
	"context"
	"testing"

	"budget-engine/internal/database"
	"budget-engine/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type RuleStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	db    *database.DB
	store RuleStoreInterface
}

func TestRuleStoreSuite(t *testing.T) {
	suite.Run(t, new(RuleStoreTestSuite))
}

func (s *RuleStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = database.SetupTestDB(s.T())
	s.store = NewRuleStore(s.db.DB)
}

func (s *RuleStoreTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *RuleStoreTestSuite) TestCreateAndGet() {
	rule := &models.CategorizationRule{
		UserID:           "user-1",
		CategoryKey:      models.CategoryGroceries,
		Priority:         10,
		MerchantContains: "tesco",
	}

	s.Require().NoError(s.store.Create(s.ctx, rule))
	s.NotEqual(uuid.Nil, rule.ID)

	found, err := s.store.GetByID(s.ctx, rule.ID)
	s.Require().NoError(err)
	s.Equal("tesco", found.MerchantContains)
	s.Equal(models.CategoryGroceries, found.CategoryKey)
}

func (s *RuleStoreTestSuite) TestCreate_RejectsRuleWithoutMatchers() {
	rule := &models.CategorizationRule{
		UserID:      "user-1",
		CategoryKey: models.CategoryGroceries,
	}

	s.Error(s.store.Create(s.ctx, rule))
}

func (s *RuleStoreTestSuite) TestListByUser_PriorityOrder() {
	database.CreateTestRule(s.T(), s.db, "user-1", models.CategoryShopping, "amazon", 100)
	database.CreateTestRule(s.T(), s.db, "user-1", models.CategoryGroceries, "tesco", 1)
	database.CreateTestRule(s.T(), s.db, "user-1", models.CategoryTransport, "shell", 50)
	database.CreateTestRule(s.T(), s.db, "user-2", models.CategoryGroceries, "aldi", 1)

	rules, err := s.store.ListByUser(s.ctx, "user-1")

	s.Require().NoError(err)
	s.Require().Len(rules, 3)
	s.Equal(models.CategoryGroceries, rules[0].CategoryKey)
	s.Equal(models.CategoryTransport, rules[1].CategoryKey)
	s.Equal(models.CategoryShopping, rules[2].CategoryKey)
}

func (s *RuleStoreTestSuite) TestGetByID_NotFound() {
	_, err := s.store.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, ErrRuleNotFound)
}

func (s *RuleStoreTestSuite) TestUpdate() {
	rule := database.CreateTestRule(s.T(), s.db, "user-1", models.CategoryGroceries, "tesco", 10)

	rule.Priority = 1
	rule.MerchantContains = "waitrose"
	s.Require().NoError(s.store.Update(s.ctx, rule))

	found, err := s.store.GetByID(s.ctx, rule.ID)
	s.Require().NoError(err)
	s.Equal(1, found.Priority)
	s.Equal("waitrose", found.MerchantContains)
}

func (s *RuleStoreTestSuite) TestDelete() {
	rule := database.CreateTestRule(s.T(), s.db, "user-1", models.CategoryGroceries, "tesco", 10)

	s.Require().NoError(s.store.Delete(s.ctx, rule.ID))

	_, err := s.store.GetByID(s.ctx, rule.ID)
	s.ErrorIs(err, ErrRuleNotFound)
}

func (s *RuleStoreTestSuite) TestDelete_NotFound() {
	s.ErrorIs(s.store.Delete(s.ctx, uuid.New()), ErrRuleNotFound)
}
