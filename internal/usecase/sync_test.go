package usecase

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
	"github.com/sarraf/treasury/internal/usecase/mocks"
)

func TestCommitEnqueuesSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := mocks.NewMockSyncer(ctrl)
	syncer.EXPECT().Enqueue(gomock.Any()).Times(1)

	s := NewService(
		book.New(),
		&seqGen{prefix: "id-"},
		&seqGen{prefix: "g-"},
		zerolog.Nop(),
		WithClock(fixedClock{t: testTime}),
		WithSyncer(syncer),
	)

	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetCashLYD, Delta: dec(100),
	}))
}

func TestRejectedOperationDoesNotSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := mocks.NewMockSyncer(ctrl)
	// No Enqueue expectation: any call fails the test.

	s := NewService(
		book.New(),
		&seqGen{prefix: "id-"},
		&seqGen{prefix: "g-"},
		zerolog.Nop(),
		WithClock(fixedClock{t: testTime}),
		WithSyncer(syncer),
	)

	err := s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetBankTotal, Delta: dec(100),
	})
	require.ErrorIs(t, err, domain.ErrDerivedAsset)
}
