package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/core/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/SscSPs/myspendr/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type CapitalServiceTestSuite struct {
	suite.Suite
	store    *memory.Store
	capital  portssvc.CapitalSvcFacade
	movement portssvc.MovementSvcFacade
	ledger   portssvc.LedgerSvc
	userID   string
}

func (suite *CapitalServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.capital = services.NewCapitalService(suite.store, fixedClock)
	suite.movement = services.NewMovementService(suite.store, fixedClock)
	suite.ledger = services.NewLedgerService(suite.store, services.WithLedgerClock(fixedClock))
	suite.userID = "user-1"
}

func (suite *CapitalServiceTestSuite) TestCreateCapital_ComputesTotal() {
	c, err := suite.capital.CreateCapital(context.Background(), suite.userID, dto.CapitalRequest{
		Bank: dec("100.10"), Cash: dec("20"), Other: dec("0.456"),
	})

	suite.Require().NoError(err)
	suite.NotEmpty(c.CapitalID)
	suite.True(c.Other.Equal(dec("0.46")))
	suite.True(c.Total.Equal(dec("120.56")))
	suite.Equal(domain.DateOnly(fixedNow), c.UpdatedOn)
}

func (suite *CapitalServiceTestSuite) TestCreateCapital_Duplicate() {
	ctx := context.Background()
	_, err := suite.capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.Require().NoError(err)

	_, err = suite.capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CapitalServiceTestSuite) TestUpdateCapital_ReplacesBalances() {
	ctx := context.Background()
	_, err := suite.capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{Bank: dec("5")})
	suite.Require().NoError(err)

	c, err := suite.capital.UpdateCapital(ctx, suite.userID, dto.CapitalRequest{Cash: dec("7")})

	suite.Require().NoError(err)
	suite.True(c.Bank.IsZero())
	suite.True(c.Total.Equal(dec("7")))
}

func (suite *CapitalServiceTestSuite) TestUpdateAndDelete_NotFound() {
	ctx := context.Background()
	_, err := suite.capital.UpdateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorIs(suite.capital.DeleteCapital(ctx, suite.userID), apperrors.ErrNotFound)
	_, err = suite.capital.GetCapital(ctx, suite.userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CapitalServiceTestSuite) TestDeleteCapital_RemovesMovements() {
	ctx := context.Background()
	_, err := suite.capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.Require().NoError(err)
	_, err = suite.ledger.Apply(ctx, suite.userID, draft(domain.DirectionIn, domain.SourceBank, domain.CategorySalary, "10"))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.capital.DeleteCapital(ctx, suite.userID))

	ms, err := suite.movement.ListMovements(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Empty(ms)
}

func (suite *CapitalServiceTestSuite) TestReport() {
	ctx := context.Background()
	rows, err := suite.capital.Report(ctx, suite.userID, domain.ReportMonthly)
	suite.Require().NoError(err)
	suite.Empty(rows)

	_, err = suite.capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{Bank: dec("10"), Cash: dec("5")})
	suite.Require().NoError(err)

	rows, err = suite.capital.Report(ctx, suite.userID, domain.ReportMonthly)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal("2025-05", rows[0].Period)
	suite.True(rows[0].Total.Equal(dec("15")))

	rows, err = suite.capital.Report(ctx, suite.userID, domain.ReportYearly)
	suite.Require().NoError(err)
	suite.Equal("2025", rows[0].Period)

	_, err = suite.capital.Report(ctx, suite.userID, domain.ReportGranularity("WEEKLY"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CapitalServiceTestSuite) TestMovementQueries() {
	ctx := context.Background()
	_, err := suite.capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.Require().NoError(err)

	lastMonth := draft(domain.DirectionOut, domain.SourceBank, domain.CategoryFood, "8")
	lastMonth.Date = time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	_, err = suite.ledger.Apply(ctx, suite.userID, lastMonth)
	suite.Require().NoError(err)
	_, err = suite.ledger.Apply(ctx, suite.userID, draft(domain.DirectionOut, domain.SourceBank, domain.CategoryFood, "3"))
	suite.Require().NoError(err)

	total, err := suite.movement.TotalByDirection(ctx, suite.userID, domain.DirectionOut)
	suite.Require().NoError(err)
	suite.True(total.Total.Equal(dec("11")))
	suite.Nil(total.From)

	prev, err := suite.movement.TotalByDirectionLastMonth(ctx, suite.userID, domain.DirectionOut)
	suite.Require().NoError(err)
	suite.True(prev.Total.Equal(dec("8")))
	suite.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *prev.From)

	inRange, err := suite.movement.ListMovementsInRange(ctx, suite.userID, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), fixedNow)
	suite.Require().NoError(err)
	suite.Len(inRange, 1)

	_, err = suite.movement.ListMovementsInRange(ctx, suite.userID, fixedNow, fixedNow.AddDate(0, 0, -1))
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.movement.RecentMovements(ctx, suite.userID, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CapitalServiceTestSuite) TestListMovementsPage_WalksEveryMovementOnce() {
	ctx := context.Background()
	_, err := suite.capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{Cash: dec("100")})
	suite.Require().NoError(err)
	// The fixed clock gives every movement the same creation time, so IDs break ties.
	for i := 0; i < 7; i++ {
		d := draft(domain.DirectionIn, domain.SourceCash, domain.CategorySalary, "1")
		d.Date = fixedNow.AddDate(0, 0, -(i % 3))
		_, err := suite.ledger.Apply(ctx, suite.userID, d)
		suite.Require().NoError(err)
	}

	seen := map[string]bool{}
	token := ""
	pages := 0
	for {
		page, err := suite.movement.ListMovementsPage(ctx, suite.userID, 3, token)
		suite.Require().NoError(err)
		pages++
		for _, m := range page.Movements {
			suite.False(seen[m.MovementID], "movement listed twice")
			seen[m.MovementID] = true
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	suite.Len(seen, 7)
	suite.Equal(3, pages)

	_, err = suite.movement.ListMovementsPage(ctx, suite.userID, 0, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.movement.ListMovementsPage(ctx, suite.userID, 3, "garbage!")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCapitalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CapitalServiceTestSuite))
}

func TestChatLinkService_TokenIsSingleUseAndExpires(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc := services.NewChatLinkService(memory.NewStore(), time.Minute, func() time.Time { return now })

	token, err := svc.IssueLinkToken(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	link, err := svc.Link(ctx, "chat-1", token.Token)
	if err != nil {
		t.Fatal(err)
	}
	if link.UserID != "user-1" {
		t.Fatalf("linked to %q", link.UserID)
	}
	if _, err := svc.Link(ctx, "chat-2", token.Token); err == nil {
		t.Fatal("token redeemed twice")
	}

	expiring, _ := svc.IssueLinkToken(ctx, "user-2")
	now = now.Add(2 * time.Minute)
	if _, err := svc.Link(ctx, "chat-3", expiring.Token); err == nil {
		t.Fatal("expired token accepted")
	}

	ids, err := svc.ChatIDsForUser(ctx, "user-1")
	if err != nil || len(ids) != 1 || ids[0] != "chat-1" {
		t.Fatalf("unexpected chat ids %v, %v", ids, err)
	}
}
