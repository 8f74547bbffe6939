package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/iliyamo/combat-tiers/internal/model"
	"github.com/iliyamo/combat-tiers/internal/repository"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *StoreSuite) create(name, tierCode, mace, region string) *model.Player {
	p := model.PlayerInput{PlayerName: name, Tier: tierCode, Macetier: mace, Region: region}.ToPlayer(0)
	s.Require().NoError(s.store.Create(s.ctx, p))
	return p
}

func (s *StoreSuite) TestCreateAssignsIncreasingIDs() {
	a := s.create("Ann", "LT1", "", "EU")
	b := s.create("Ann", "HT1", "", "EU")

	s.Equal(int64(1), a.ID)
	s.Equal(int64(2), b.ID)
}

func (s *StoreSuite) TestListAllNewestFirst() {
	s.create("Ann", "LT1", "", "EU")
	s.create("Bo", "", "HT2", "NA")
	s.create("Cy", "HT3", "LT5", "AS")

	players, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal([]int64{3, 2, 1}, []int64{players[0].ID, players[1].ID, players[2].ID})
}

func (s *StoreSuite) TestListAllEmpty() {
	players, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.NotNil(players)
	s.Empty(players)
}

func (s *StoreSuite) TestListReturnsCopies() {
	s.create("Ann", "LT1", "", "EU")

	players, _ := s.store.ListAll(s.ctx)
	players[0].PlayerName = "changed"

	again, _ := s.store.ListAll(s.ctx)
	s.Equal("Ann", again[0].PlayerName)
}

func (s *StoreSuite) TestUpdate() {
	p := s.create("Ann", "LT1", "", "EU")

	updated := model.PlayerInput{PlayerName: "Ann B", Tier: "", Macetier: "ht1", Region: "NA"}.ToPlayer(p.ID)
	s.Require().NoError(s.store.Update(s.ctx, updated))

	players, _ := s.store.ListAll(s.ctx)
	s.Require().Len(players, 1)
	s.Equal(p.ID, players[0].ID)
	s.Equal("Ann B", players[0].PlayerName)
	s.Nil(players[0].TierClass)
	s.Equal("HT1", model.StringValue(players[0].MaceTier))
	s.Equal(60, players[0].Points)
	s.Equal("Combat Specialist", players[0].PlayerTitle)
}

func (s *StoreSuite) TestUpdateMissing() {
	s.create("Ann", "LT1", "", "EU")

	err := s.store.Update(s.ctx, &model.Player{ID: 42, PlayerName: "x", Region: "y"})
	s.ErrorIs(err, repository.ErrPlayerNotFound)

	players, _ := s.store.ListAll(s.ctx)
	s.Equal("Ann", players[0].PlayerName)
}

func (s *StoreSuite) TestDelete() {
	p := s.create("Ann", "LT1", "", "EU")

	s.Require().NoError(s.store.Delete(s.ctx, p.ID))
	s.ErrorIs(s.store.Delete(s.ctx, p.ID), repository.ErrPlayerNotFound)

	players, _ := s.store.ListAll(s.ctx)
	s.Empty(players)
}

func (s *StoreSuite) TestLessTieBreakers() {
	ht := "HT1"
	lt := "LT1"
	a := &model.Player{ID: 1, TierClass: &ht, Region: "EU"}
	b := &model.Player{ID: 1, TierClass: &lt, Region: "AA"}
	s.True(less(b, a), "tierClass sorts descending")

	c := &model.Player{ID: 1, TierClass: &lt, Region: "EU"}
	s.True(less(b, c), "region sorts ascending")

	d := &model.Player{ID: 1, Region: "EU"}
	s.True(less(c, d), "NULL tierClass sorts last when descending")
}
