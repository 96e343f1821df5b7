package security

import (
	"errors"
	"io"
	"math"
	"testing"

	"betting_e2e/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLayer(t *testing.T) *SecurityLayer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	env := entities.Environment{
		Name:  "QA",
		Games: map[string]entities.GameLimits{"crash": {MinBet: 5, MaxBet: 1000, MaxMultiplier: 100}},
	}
	return NewSecurityLayer(env, logger)
}

func TestSecurityLayer_CheckBet(t *testing.T) {
	s := newLayer(t)

	tbl := []struct {
		amount float64
		ok     bool
	}{
		{5, true},
		{1000, true},
		{42.5, true},
		{4.99, false},
		{1000.01, false},
		{0, false},
		{-5, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tbl {
		err := s.CheckBet("crash", tt.amount)
		if tt.ok {
			assert.NoError(t, err, "amount %v", tt.amount)
			continue
		}
		require.Error(t, err, "amount %v", tt.amount)
		assert.True(t, errors.Is(err, entities.ErrInvalidInput), "amount %v", tt.amount)
	}
}

func TestSecurityLayer_UnknownGame(t *testing.T) {
	err := newLayer(t).CheckBet("dice", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrInvalidInput))
	assert.Contains(t, err.Error(), `"dice"`)
}

func TestSecurityLayer_CheckAmount(t *testing.T) {
	s := newLayer(t)
	assert.NoError(t, s.CheckAmount(10))
	assert.NoError(t, s.CheckAmount(0.01))
	assert.True(t, errors.Is(s.CheckAmount(0), entities.ErrInvalidInput))
	assert.True(t, errors.Is(s.CheckAmount(-1), entities.ErrInvalidInput))
}
