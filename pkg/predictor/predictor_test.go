package predictor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePredictor struct {
	out RawPrediction
	err error
}

func (f fakePredictor) Predict(context.Context, Request) (RawPrediction, error) {
	return f.out, f.err
}

func TestPredictorInterfaceSatisfiedByFake(t *testing.T) {
	var p Predictor = fakePredictor{out: RawPrediction{
		Frame: RawActivatedFrame{ActivatedAxisIndices: []int{0, 1}, Confidence: 0.8},
		Action: RawActionPrediction{
			ActionType: ActionMove,
			Confidence: 0.85,
			Context:    ContextSharedHistory,
		},
		EmotionalDeltas: []RawEmotionalDelta{
			{PrimaryIndex: 0, IntensityChange: 0.2},
			{PrimaryIndex: 4, IntensityChange: -0.1},
		},
	}}

	out, err := p.Predict(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, out.Frame.ActivatedAxisIndices)
	assert.Len(t, out.EmotionalDeltas, 2)
}
