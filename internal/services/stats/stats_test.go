package stats

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cyberstore/internal/model"
	"github.com/mcoot/cyberstore/internal/services/catalog"
)

type StatsSuite struct {
	suite.Suite
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsSuite))
}

func (s *StatsSuite) TestAuthorCountsFirstAppearanceOrder() {
	games := []model.Game{
		{Author: "B"}, {Author: "A"}, {Author: "B"}, {Author: "C"}, {Author: "A"}, {Author: "B"},
	}

	s.Equal([]AuthorCount{
		{Author: "B", Count: 3},
		{Author: "A", Count: 2},
		{Author: "C", Count: 1},
	}, AuthorCounts(games))
}

func (s *StatsSuite) TestAuthorCountsEmpty() {
	counts := AuthorCounts(nil)
	s.NotNil(counts)
	s.Empty(counts)
}

func (s *StatsSuite) TestTotalValueOfInitialCatalog() {
	s.InDelta(204.94, TotalValue(catalog.InitialGames()), 0.0001)
}

func (s *StatsSuite) TestSummarize() {
	summary := Summarize(catalog.InitialGames(), 1)

	s.Equal(6, summary.GameCount)
	s.Equal(204.94, summary.TotalValue)
	s.Len(summary.Authors, 6)
	s.Equal("CDPR", summary.Authors[0].Author)
	s.Equal(1, summary.OnlineCount)
}

func (s *StatsSuite) TestRound2() {
	s.Equal(0.3, Round2(0.1+0.2))
	s.Equal(10.0, Round2(9.999))
}
